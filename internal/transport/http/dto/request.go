package dto

import (
	"strings"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=32,username_format"`
	Password string `json:"password" validate:"required,max=128"`
}

// Validate trims and lowercases the email before checking tags.
func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	return validateStruct(r)
}

// LoginRequest is filled from an OAuth2 password form or a JSON body.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	return validateStruct(r)
}

// PinQuery is the ?pin= parameter of POST /verify.
type PinQuery struct {
	PIN string `form:"pin" validate:"required,len=4,numeric"`
}

func (q *PinQuery) Validate() error {
	return validateStruct(q)
}
