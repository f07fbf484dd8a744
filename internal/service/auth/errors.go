package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors.
var (
	// ErrInvalidToken covers every token verification failure: bad
	// signature, malformed encoding, expiry, and wrong token type all
	// collapse to this one kind so callers (and clients) cannot probe
	// which check rejected a token.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken marks the expiry case for logs; it wraps
	// ErrInvalidToken so errors.Is sees a single taxonomy at boundaries.
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrWrongTokenType marks an access token presented as a refresh token
	// or vice versa. Also wraps ErrInvalidToken.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrAuthenticationFailed indicates the email is unknown or the
	// password does not verify; the two causes are indistinguishable.
	ErrAuthenticationFailed = errors.New("invalid email or password")

	// ErrAccountInactive indicates valid credentials for a deactivated
	// account.
	ErrAccountInactive = errors.New("account is inactive")
)
