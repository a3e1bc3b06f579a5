package domain

import (
	"slices"
	"time"
)

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants access to the administrative console.
	RoleAdmin Role = "admin"
	// RoleCustomer grants standard storefront access.
	RoleCustomer Role = "customer"
)

// Address is a customer's delivery address, edited on the profile page.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Landmark   string `json:"landmark,omitempty"`
}

// User represents an account in the system. Customers sign themselves up;
// the seed tool creates the initial admin.
type User struct {
	Syncable
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Image        string    `json:"image,omitempty"` // Served path of the profile picture
	Address      *Address  `json:"address,omitempty"`
	Role         Role      `json:"role"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`

	// Interests are product IDs the customer flagged ("I'm interested").
	// Drives the admin dashboard's lead list.
	Interests []string `json:"interests,omitempty"`
}

// IsAdmin returns true if the user may use the administrative console.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AddInterest records interest in a product. Returns false if the product
// was already flagged, keeping the operation idempotent.
func (u *User) AddInterest(productID string) bool {
	if slices.Contains(u.Interests, productID) {
		return false
	}
	u.Interests = append(u.Interests, productID)
	return true
}
