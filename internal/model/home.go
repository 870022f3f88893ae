package model

import (
	"strings"
	"time"
)

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyResidential PropertyType = "RESIDENTIAL"
	PropertyCondo       PropertyType = "CONDO"
)

// ParsePropertyType accepts a property type in any case.
func ParsePropertyType(s string) (PropertyType, bool) {
	p := PropertyType(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PropertyResidential, PropertyCondo:
		return p, true
	}
	return "", false
}

// Home mirrors a row of the `homes` table.  RealtorID references the user
// who owns the listing.
type Home struct {
	ID                uint64
	Address           string
	City              string
	Price             float64
	LandSize          float64
	PropertyType      PropertyType
	NumberOfBedrooms  int
	NumberOfBathrooms float64
	RealtorID         uint64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Image mirrors a row of the `images` table.
type Image struct {
	ID     uint64 `json:"-"`
	URL    string `json:"url"`
	HomeID uint64 `json:"-"`
}

// HomeSummary is the search result shape: listing fields plus at most one
// image URL.
type HomeSummary struct {
	ID                uint64       `json:"id"`
	Address           string       `json:"address"`
	City              string       `json:"city"`
	Price             float64      `json:"price"`
	LandSize          float64      `json:"land_size"`
	PropertyType      PropertyType `json:"property_type"`
	NumberOfBedrooms  int          `json:"number_of_bedrooms"`
	NumberOfBathrooms float64      `json:"number_of_bathrooms"`
	RealtorID         uint64       `json:"realtor_id"`
	Image             string       `json:"image,omitempty"`
}

// HomeDetail is a single listing with all of its images.
type HomeDetail struct {
	ID                uint64       `json:"id"`
	Address           string       `json:"address"`
	City              string       `json:"city"`
	Price             float64      `json:"price"`
	LandSize          float64      `json:"land_size"`
	PropertyType      PropertyType `json:"property_type"`
	NumberOfBedrooms  int          `json:"number_of_bedrooms"`
	NumberOfBathrooms float64      `json:"number_of_bathrooms"`
	RealtorID         uint64       `json:"realtor_id"`
	Images            []Image      `json:"images"`
}

// Detail combines a home row with its images.
func (h Home) Detail(images []Image) HomeDetail {
	if images == nil {
		images = []Image{}
	}
	return HomeDetail{
		ID:                h.ID,
		Address:           h.Address,
		City:              h.City,
		Price:             h.Price,
		LandSize:          h.LandSize,
		PropertyType:      h.PropertyType,
		NumberOfBedrooms:  h.NumberOfBedrooms,
		NumberOfBathrooms: h.NumberOfBathrooms,
		RealtorID:         h.RealtorID,
		Images:            images,
	}
}

// HomeFilter holds the optional search criteria.  A nil pointer or empty
// string means the criterion is absent and adds no predicate.
type HomeFilter struct {
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType PropertyType
}

// HomeChanges is a partial update; only non-nil fields are written.
type HomeChanges struct {
	Address           *string
	City              *string
	Price             *float64
	LandSize          *float64
	PropertyType      *PropertyType
	NumberOfBedrooms  *int
	NumberOfBathrooms *float64
}

// Empty reports whether no field was supplied.
func (c HomeChanges) Empty() bool {
	return c.Address == nil && c.City == nil && c.Price == nil && c.LandSize == nil &&
		c.PropertyType == nil && c.NumberOfBedrooms == nil && c.NumberOfBathrooms == nil
}
