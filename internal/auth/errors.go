package auth

import "github.com/swiftcart/authgate/pkg/authapi"

// Error is a classified authentication failure carrying a wire code from the
// authapi contract. Err, when set, is the underlying cause and is visible to
// errors.Is / errors.As.
type Error struct {
	Code    string
	Message string
	UserID  string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidCredentials() *Error {
	return &Error{Code: authapi.CodeInvalidCredentials, Message: "invalid email or password"}
}

func accountLocked() *Error {
	return &Error{Code: authapi.CodeAccountLocked, Message: "account temporarily locked, try again later"}
}

func challengeRejected() *Error {
	return &Error{Code: authapi.CodeChallengeRejected, Message: "challenge verification failed"}
}

func otpInvalid() *Error {
	return &Error{Code: authapi.CodeOTPInvalid, Message: "incorrect code"}
}

func otpExpired() *Error {
	return &Error{Code: authapi.CodeOTPExpired, Message: "code invalid or expired, log in again"}
}
