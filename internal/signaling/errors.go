package signaling

import "fmt"

// ProtocolError is a malformed frame or a missing required field. The
// connection stays open; the session replies with a generic error envelope.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return e.Reason }

func NewProtocolError(format string, args ...any) *ProtocolError {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// AuthError is a bad or expired token, or an email/token mismatch. The
// session replies with a register error and closes the connection.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

func NewAuthError(format string, args ...any) *AuthError {
	return &AuthError{Reason: fmt.Sprintf(format, args...)}
}

// BusError is a publish or subscribe failure against the shared bus.
// Registration degrades to local-only mode; forwards report an error to
// the sender.
type BusError struct {
	Op     string
	Reason error
}

func (e *BusError) Error() string { return fmt.Sprintf("bus %s failed: %v", e.Op, e.Reason) }

func (e *BusError) Unwrap() error { return e.Reason }

func NewBusError(op string, reason error) *BusError {
	return &BusError{Op: op, Reason: reason}
}

// StoreError is a ContactGraph or TokenAuthority failure.
type StoreError struct {
	Op     string
	Reason error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s failed: %v", e.Op, e.Reason) }

func (e *StoreError) Unwrap() error { return e.Reason }

func NewStoreError(op string, reason error) *StoreError {
	return &StoreError{Op: op, Reason: reason}
}

// NotFoundError is a target device that never answered within the forward
// confirmation deadline.
type NotFoundError struct {
	Email  string
	Device string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User %s with device %s is not online", e.Email, e.Device)
}

func NewNotFoundError(email, device string) *NotFoundError {
	return &NotFoundError{Email: email, Device: device}
}
