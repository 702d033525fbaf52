// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents the access level of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// AddressNotOnFile is the sentinel delivery address used when a shopper
// has no address on their profile. Checkout records it instead of
// failing the commit.
const AddressNotOnFile = "address not on file"

// User represents the user entity
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Username  string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string         `gorm:"not null;size:255" json:"-"`
	Role      Role           `gorm:"not null;default:'customer';size:20" json:"role"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Address   string         `gorm:"size:500" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DeliveryAddress returns the address on file or the sentinel fallback.
func (u *User) DeliveryAddress() string {
	if strings.TrimSpace(u.Address) == "" {
		return AddressNotOnFile
	}
	return u.Address
}
