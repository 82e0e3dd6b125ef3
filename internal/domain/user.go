package domain

import "strings"

// User is the read-only profile record at users/{userId}. The dashboard
// lists users and joins them into review exports; it never writes them.
type User struct {
	ID              string `json:"id,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Role            string `json:"role,omitempty"`
	Location        string `json:"location,omitempty"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
