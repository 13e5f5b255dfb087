package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrInvalidFullName    = errors.New("invalid_full_name")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrStaffExists        = errors.New("staff_already_exists")
	ErrStaffNotFound      = errors.New("staff_not_found")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrTokenExpired       = errors.New("token_expired")
)
