package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/storage"
)

var validate = validator.New()

type RegisterUserRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	DeviceID string `json:"device_id" validate:"required"`
	Voice    string `json:"voice,omitempty" validate:"omitempty"`
}

func ValidateRegisterUserRequest(req *RegisterUserRequest) error {
	return validate.Struct(req)
}

// RegisterUser creates the identity record and returns its store-generated id.
// The device id is the de facto key; no uniqueness is enforced.
func RegisterUser(ctx context.Context, users storage.UserRepository, req *RegisterUserRequest) (string, error) {
	voice := req.Voice
	if voice == "" {
		voice = internal.DefaultVoice
	}
	user := &internal.User{
		Name:     req.Name,
		Email:    req.Email,
		DeviceID: req.DeviceID,
		Voice:    voice,
	}
	return users.CreateUser(ctx, user)
}
