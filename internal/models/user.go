package models

type User struct {
	ID             string `json:"userId"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email"`
	Password       string `json:"-"`
	Role           string `json:"role,omitempty"`
	Provider       string `json:"provider,omitempty"`
	ProviderID     string `json:"-"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}
