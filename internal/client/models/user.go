// Package models defines data shapes shared by the castkeeper client layers.
package models

// User is the profile the backend returns for the signed-in account.
type User struct {
	ID           string  `json:"_id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profileImage"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.ProfileImage != nil {
		img := *u.ProfileImage
		c.ProfileImage = &img
	}
	return &c
}

// HasImage reports whether a profile image is set.
func (u *User) HasImage() bool {
	return u != nil && u.ProfileImage != nil && *u.ProfileImage != ""
}
