//go:build !darwin

package convert

import "time"

// setCreationTime is a no-op on platforms without a settable creation time.
func setCreationTime(path string, t time.Time) {}
