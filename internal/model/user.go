package model

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is the global login identity. A user may belong to several tenants;
// each request is still bound to exactly one tenant via the access token.
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	// TokenVersion is a monotonic counter embedded in every issued token.
	// Bumping it (password change, "log out everywhere") revokes all
	// outstanding tokens without a blacklist.
	TokenVersion int `gorm:"not null;default:1" json:"-"`
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes and stores the given plaintext password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
