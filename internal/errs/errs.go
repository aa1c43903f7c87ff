package errs

import "errors"

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrSessionNotFound = errors.New("chat session not found")
	ErrQuoteNotFound   = errors.New("quote request not found")
	ErrContactNotFound = errors.New("contact message not found")
	ErrUserNotFound    = errors.New("user profile not found")
)
