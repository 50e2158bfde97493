package domain

import "errors"

// Kind classifies a domain error so the HTTP boundary can pick a status
// code without inspecting messages.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindValidation    Kind = "validation"
	KindUnprocessable Kind = "unprocessable"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrEmailExists          = E(KindConflict, "user with this email already exists")
	ErrPhoneExists          = E(KindConflict, "user with this phone already exists")
	ErrUserNotFound         = E(KindNotFound, "user not found")
	ErrUserUnauthorized     = E(KindUnauthorized, "user not found")
	ErrInvalidPassword      = E(KindUnauthorized, "invalid password")
	ErrInvalidCredentials   = E(KindUnauthorized, "could not validate credentials")
	ErrEventNotFound        = E(KindNotFound, "event not found")
	ErrRegistrationExists   = E(KindConflict, "registration already exists")
	ErrForbidden            = E(KindForbidden, "forbidden")
	ErrUserHasRegistrations = E(KindConflict, "user still has event registrations")
	ErrTokenExpired         = E(KindForbidden, "token has expired")
	ErrMalformedToken       = E(KindUnprocessable, "could not decode token")
	ErrInvalidRefreshToken  = E(KindUnauthorized, "invalid refresh token")
)

// KindOf returns the error's kind, or an empty Kind for non-domain errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func validationError(message string) *Error {
	return E(KindValidation, message)
}
