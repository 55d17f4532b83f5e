package dubbing

import "fmt"

// AccessError is an authentication or authorization failure against an
// external collaborator. Never retried.
type AccessError struct {
	Service string
	Err     error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied by %s: %v", e.Service, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ValidationError is a malformed or length-mismatched collaborator response.
// Retried up to the configured bound, then fatal.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid collaborator output: %s", e.Reason)
}

// TimingInvariantError indicates a caller bug: an utterance with end <= start,
// duplicate spans, or an unsorted list handed to a stage.
type TimingInvariantError struct {
	Reason string
}

func (e *TimingInvariantError) Error() string {
	return fmt.Sprintf("timing invariant violated: %s", e.Reason)
}

// AssetMissingError reports an audio or video artifact that should exist on
// disk but does not.
type AssetMissingError struct {
	Path string
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("required asset missing: %s", e.Path)
}

// MissingFieldError reports an utterance that reached a stage without a field
// that stage requires.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("utterance %d is missing required field %q", e.Index, e.Field)
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
