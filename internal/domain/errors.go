package domain

import "errors"

// ErrConnectivity marks a fetch failure attributable to lack of network
// reachability (no route, timeout, DNS), as opposed to a protocol or
// server-level failure. Wrap with fmt.Errorf("...: %w", ErrConnectivity).
var ErrConnectivity = errors.New("network unreachable")

// IsConnectivityError reports whether err is connectivity-class.
func IsConnectivityError(err error) bool {
	return errors.Is(err, ErrConnectivity)
}
