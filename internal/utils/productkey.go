package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/homelist/homelist-api/internal/model"
)

// productKeyMaterial is the deterministic input behind a product key:
// "email-ROLE-secret".  bcrypt reads at most 72 bytes, so the string is
// digested first; otherwise long emails would truncate away the secret.
func productKeyMaterial(secret, email string, role model.Role) []byte {
	email = strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s", email, role, secret)))
	return []byte(hex.EncodeToString(sum[:]))
}

// DeriveProductKey returns the key a registrant must present to sign up as
// role.  Each call yields a different bcrypt string; all of them verify.
func DeriveProductKey(secret, email string, role model.Role, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(productKeyMaterial(secret, email, role), clampCost(cost))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyProductKey reports whether candidate was derived for this email and
// role with the same secret.
func VerifyProductKey(secret, candidate, email string, role model.Role) bool {
	if candidate == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(candidate), productKeyMaterial(secret, email, role)) == nil
}
