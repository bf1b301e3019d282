//go:build !linux && !windows

package player

import "errors"

// GetWindowHandle is unsupported here; mpv opens its own window instead.
func GetWindowHandle() (int64, error) {
	return 0, errors.New("embedded playback is not supported on this platform")
}
