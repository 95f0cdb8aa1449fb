package api

import (
	"errors"
	"fmt"
)

// ErrorCode tags failures that never reached a server-produced status:
// timeouts, connection failures, and responses the client could not make
// sense of. Server-produced failures carry a Status and an empty Code.
type ErrorCode string

const (
	CodeTimeout ErrorCode = "timeout"
	CodeNetwork ErrorCode = "network_error"
	CodeUnknown ErrorCode = "unknown_error"
)

// Error is the normalised failure shape every gateway call returns.
//
// Exactly one of the two families applies:
//   - transport errors: Status == 0, Code set;
//   - server errors: Status set (HTTP status, or 200 for success:false
//     business rejections), Code empty.
//
// Fields carries 422-style field→messages pairs when the server sent them.
// Body preserves the raw response body so endpoint-specific callers can
// decode reason payloads (e.g. the remaining credit balance on an
// insufficient-credits rejection).
type Error struct {
	Status  int
	Code    ErrorCode
	Message string
	Fields  map[string][]string
	Body    []byte
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// IsTimeout reports whether err is a gateway timeout.
func IsTimeout(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == CodeTimeout
}

// IsNetwork reports whether err is a connection-level failure
// (the server was never reached).
func IsNetwork(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == CodeNetwork
}

// IsTransport reports whether err implies nothing about server-side state.
func IsTransport(err error) bool {
	return IsTimeout(err) || IsNetwork(err)
}

// IsStatus reports whether err is a server response with the given status.
func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == status
}

// FieldErrors extracts server-side validation errors, or nil.
func FieldErrors(err error) map[string][]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
