package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// User represents an authenticated account. UserName is the unique public
// handle; DisplayName is the free-form name shown on profiles.
type User struct {
	Record
	UserName     string `json:"user_name"`
	DisplayName  string `json:"display_name,omitempty"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Role         Role   `json:"role"`
	AvatarPath   string `json:"avatar_path,omitempty"` // Relative to the avatars bucket
	BannerPath   string `json:"banner_path,omitempty"` // Relative to the banners bucket
	Bio          string `json:"bio,omitempty"`
}

// IsAdmin checks whether the user has administrative access.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized returns a copy safe to embed in API responses.
func (u *User) Sanitized() User {
	clean := *u
	clean.PasswordHash = ""
	clean.Email = ""
	return clean
}
