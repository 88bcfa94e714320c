package entities

import "strings"

// User is an account known to the backend. ID is server-assigned and never changes.
type User struct {
	ID        uint
	Username  string
	Email     string
	FirstName string
	LastName  string
	Location  string
}

// DisplayName returns "First Last" when set, the username otherwise.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}

// ProfilePatch holds the profile fields to change; nil means "keep".
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Location  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Location == nil
}

// Apply returns u with the patch fields applied.
func (p ProfilePatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	return u
}

// Credentials are the username/password pair sent to the login endpoint.
type Credentials struct {
	Username string
	Password string
}

// SignupFields are the fields sent to the signup endpoint.
type SignupFields struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	Location        string
}
