package users

import (
	"time"

	"github.com/vendora/vendora/internal/authz"
)

// User represents a user account for management.
type User struct {
	ID         int64
	Email      string
	Name       string
	Role       authz.Role
	MerchantID *int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
