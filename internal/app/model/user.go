package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperadmin UserRole = "superadmin"
)

// roleRank orders roles for privilege comparison. Unknown roles rank 0.
var roleRank = map[UserRole]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// Valid reports whether the role is one of the closed set.
func (r UserRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role ranks at or above required.
func (r UserRole) AtLeast(required UserRole) bool {
	return roleRank[r] >= roleRank[required]
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	Permissions  pq.StringArray `gorm:"type:text[]" json:"permissions,omitempty"` // assigned at role-change time
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders  []Order  `gorm:"foreignKey:UserID" json:"-"`
	Reviews []Review `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user's role ranks at or above required.
func (u *User) HasRole(required UserRole) bool {
	return u.Role.AtLeast(required)
}

// HasPermission reports whether the user holds the named permission.
// Superadmins implicitly hold every permission.
func (u *User) HasPermission(permission string) bool {
	if u.Role == RoleSuperadmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
