package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound            = errors.New("not found")
	ErrorDuplicateKey        = errors.New("duplicate key")
	ErrorForeignKeyViolation = errors.New("foreign key violation")

	// Service-level errors.
	ErrorInternal    = errors.New("internal error")
	ErrorAuthFailure = errors.New("invalid credentials")
	ErrorValidation  = errors.New("validation error")

	// Analysis pipeline errors.
	ErrorDecode    = errors.New("image decode error")
	ErrorStorage   = errors.New("storage error")
	ErrorInference = errors.New("inference error")

	// Session errors (invalid or malformed token).
	ErrorInvalidToken = errors.New("invalid token")
)
