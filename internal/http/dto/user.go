package dto

import "github.com/cesargomez89/statify/internal/spotify"

type UserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Followers   int    `json:"followers"`
}

func NewUserResponse(u *spotify.User) UserResponse {
	user := u.ToDomain()
	return UserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       u.Email,
		Country:     user.Country,
		Product:     user.Product,
		ImageURL:    user.ImageURL,
		Followers:   user.Followers,
	}
}
