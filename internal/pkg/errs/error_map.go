/*
Package errs provides the custom error type and application-level error codes.

This file maps every error code to its CustomError template, standardizing the
client-facing message and, where relevant, the HTTP status.
*/
package errs

import "net/http"

// errorMap holds the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Registration and Presence Errors
	ErrIncompleteRegistration: {Code: ErrIncompleteRegistration, Message: "Registration requires nickname, gender and region."},
	ErrNicknameInUse:          {Code: ErrNicknameInUse, Message: "Nickname %q is already taken."},
	ErrInvalidNickname:        {Code: ErrInvalidNickname, Message: "Invalid nickname."},

	// 3xxx: Messaging Errors
	ErrRecipientNotFound: {Code: ErrRecipientNotFound, Message: "User %q is not connected."},
	ErrMuted:             {Code: ErrMuted, Message: "You are muted for %s for sending messages too quickly."},
	ErrMessageTooLong:    {Code: ErrMessageTooLong, Message: "Message is too long."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
