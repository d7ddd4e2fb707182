package app

import "errors"

// ValidationError carries a message that is safe to show to the user. The
// request should be corrected and resubmitted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a user-facing validation failure and
// returns its message.
func IsValidation(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}

var (
	ErrInvalidInput         = invalid("Invalid input.")
	ErrIdentityRequired     = invalid("Username and email are required.")
	ErrUsernameExists       = invalid("Username already exists.")
	ErrEmailExists          = invalid("Email already registered.")
	ErrPasswordMismatch     = invalid("Passwords do not match.")
	ErrPasswordTooShort     = invalid("Password must be at least 6 characters long.")
	ErrPasswordTooLong      = invalid("Password is too long.")
	ErrWrongCurrentPassword = invalid("Current password is incorrect.")
	ErrEmailRequired        = invalid("Email is required.")
	ErrInvalidResetCode     = invalid("Invalid or expired reset code.")
	ErrCafeFieldsRequired   = invalid("Name, location and coffee price are required.")
	ErrInvalidRating        = invalid("Rating must be between 1 and 5.")
	ErrReviewContent        = invalid("Review text is required and may not exceed 1000 characters.")
)

var (
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrCafeNotFound      = errors.New("cafe not found")
	ErrForbidden         = errors.New("cafe belongs to another user")
)
