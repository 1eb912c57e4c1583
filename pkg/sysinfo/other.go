//go:build !linux && !darwin && !windows

package sysinfo

// GetScreenDimensions is not supported on this platform.
func GetScreenDimensions() (int, int, error) {
	return 0, 0, ErrNoDisplay
}
