/*
Package errs provides the custom error type and application-level error codes.

The codes identify specific business or protocol failures both in server logs
and in the status events sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the HTTP/handshake request rate exceeded the limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Registration and Presence Errors
const (
	// ErrIncompleteRegistration indicates a registration event missing nickname, gender, or region.
	ErrIncompleteRegistration = 2101

	// ErrNicknameInUse indicates the requested nickname is held by another active connection.
	ErrNicknameInUse = 2102

	// ErrInvalidNickname indicates the nickname failed format validation.
	ErrInvalidNickname = 2103
)

// 3xxx: Messaging Errors
const (
	// ErrRecipientNotFound indicates a direct message addressed to an unknown nickname,
	// or to the sender's own nickname.
	ErrRecipientNotFound = 3101

	// ErrMuted indicates the connection is temporarily muted for exceeding the message rate.
	ErrMuted = 3102

	// ErrMessageTooLong indicates the message body exceeded the configured size limit.
	ErrMessageTooLong = 3103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000
)
