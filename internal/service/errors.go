package service

import "errors"

// Sentinel error kinds returned by the auth service. The api error handler
// translates each kind to an HTTP status; the message text is what the client
// sees. Login failures for a missing user and a wrong password stay generic
// to avoid user enumeration, but remain distinct kinds for logging.
var (
	ErrFieldsRequired     = errors.New("all fields are required")
	ErrIdentifierRequired = errors.New("username or email is required")
	ErrAvatarRequired     = errors.New("avatar image is required")
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrUploadFailed       = errors.New("file upload failed")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid refresh token")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrUnauthorized   = errors.New("unauthorized request")
)
