// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is a time-ordered UUID string assigned at registration.
	ID string `gorm:"primaryKey;size:36"`

	// Username must be unique across all users.
	Username string `gorm:"uniqueIndex;size:64;not null"`

	// Email must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	Fullname  string `gorm:"size:255"`
	FirstName string `gorm:"size:128"`
	LastName  string `gorm:"size:128"`

	// PasswordHash is the bcrypt hash of the password. It never leaves the server.
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity returns the claims embedded in a session token for u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Email: u.Email, Username: u.Username}
}

// ProfileUpdate holds the fields of a partial profile update.
// Nil or empty fields leave the stored value untouched.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	Fullname  *string
	FirstName *string
	LastName  *string
}

// Apply overwrites the fields of u that are set in p.
// It returns true when at least one field changed.
func (p ProfileUpdate) Apply(u *User) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v == nil || *v == "" || *dst == *v {
			return
		}
		*dst = *v
		changed = true
	}
	set(&u.Username, p.Username)
	set(&u.Email, p.Email)
	set(&u.Fullname, p.Fullname)
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	return changed
}
