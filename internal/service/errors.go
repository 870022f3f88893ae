// Package service holds the business rules of the listing API.  Services
// depend on small store interfaces declared here and implemented by the
// repository package, so they can be exercised without a database.
package service

import (
	"errors"

	"github.com/homelist/homelist-api/internal/repository"
)

// ErrNotFound is the repository sentinel, re-exported so handlers only
// import this package.
var ErrNotFound = repository.ErrNotFound

var (
	// ErrNotOwner means the caller is not the realtor of the home.
	ErrNotOwner = errors.New("not the owner of this home")
	// ErrNotRealtor means a home was assigned to a user who is not a REALTOR.
	ErrNotRealtor = errors.New("target user is not a realtor")

	ErrUserExists         = errors.New("User Exists Already")
	ErrInvalidEmail       = errors.New("Invalid Email")
	ErrIncorrectPassword  = errors.New("Incorrect Password")
	ErrProductKeyRequired = errors.New("No Product Key, ProductKey Required")
	ErrProductKeyMismatch = errors.New("Product Key Mismatch")
)
