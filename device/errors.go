package device

import "github.com/cockroachdb/errors"

// Sentinel errors for the device bring-up taxonomy. Callers test with
// errors.Is; wrapped causes keep the failing driver query visible.
var (
	// ErrNoSuitableDevice means enumeration returned no device, or no
	// enumerated device satisfied queue family, extension and swapchain
	// adequacy requirements. Fatal to startup, never retried.
	ErrNoSuitableDevice = errors.New("no suitable physical device")

	// ErrContextCreation means the driver rejected creation of a
	// logical device or a dependent resource. Fatal, never retried.
	ErrContextCreation = errors.New("context creation failed")
)

// creationFailure wraps a driver error as a fatal context creation
// failure while keeping the original cause for diagnosis.
func creationFailure(err error, what string) error {
	return errors.Mark(errors.Wrapf(err, "%s", what), ErrContextCreation)
}
