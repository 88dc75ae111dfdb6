package service

import (
	"errors"
)

var (
	// ErrArticleNotFound is returned when an id or slug matches no article
	ErrArticleNotFound = errors.New("article not found")
	// ErrSlugConflict is returned when every slug candidate was taken
	ErrSlugConflict = errors.New("could not allocate a unique slug, please retry")

	// ErrInvalidCredentials is returned for an unknown username or wrong password
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInvalidToken is returned for a missing, malformed or expired bearer token
	ErrInvalidToken = errors.New("could not validate credentials")
	// ErrRegistrationForbidden is returned when the email is not on the admin allowlist
	ErrRegistrationForbidden = errors.New("admin registration is restricted to authorized email addresses")
	// ErrAdminExists is returned when the username or email is already registered
	ErrAdminExists = errors.New("admin account already exists")

	// ErrWrongPassword is returned when the current password does not verify
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrPasswordMismatch is returned when the confirmation differs from the new password
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")
	// ErrPasswordUnchanged is returned when the new password equals the current one
	ErrPasswordUnchanged = errors.New("new password must be different from the current password")

	// ErrUnsupportedExportFormat is returned for export formats other than ndjson and json
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
