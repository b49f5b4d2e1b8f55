// Package errs contains the error categories shared by the store, service and HTTP layers.
package errs

import "errors"

// Categories. Every domain failure unwraps to exactly one of these.
var (
	// ErrUnauthorized indicates failed authentication: bad credentials or an unusable token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated caller lacking the required privilege or ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist or is soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateValue indicates a unique field (email, username, token) is already taken.
	ErrDuplicateValue = errors.New("duplicate value")
)

// Client facing messages.
const (
	MsgWrongCredentials    = "Wrong username, email or password."
	MsgNotAuthenticated    = "User not authenticated."
	MsgNotEnoughPrivileges = "You do not have enough privileges."
	MsgUserNotFound        = "User not found"
	MsgEmailRegistered     = "Email is already registered"
	MsgUsernameTaken       = "Username not available"
	MsgUserDeleted         = "User deleted"
	MsgLoggedOut           = "Logged out successfully"
)

// Error carries a client facing detail on top of a category.
type Error struct {
	kind   error
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.kind
}

func Unauthorized(detail string) error {
	return &Error{kind: ErrUnauthorized, Detail: detail}
}

func Forbidden(detail string) error {
	return &Error{kind: ErrForbidden, Detail: detail}
}

func NotFound(detail string) error {
	return &Error{kind: ErrNotFound, Detail: detail}
}

func DuplicateValue(detail string) error {
	return &Error{kind: ErrDuplicateValue, Detail: detail}
}

// Detail returns the client facing message of err, or fallback when err carries none.
func Detail(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}
