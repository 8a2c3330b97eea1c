package dto

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/token"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.CreatedAt,
	}
}

// ToLoginResponse combines the issued tokens with the user
func ToLoginResponse(pair token.Pair, user models.User) LoginResponse {
	return LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    ToUserDTO(user),
	}
}
