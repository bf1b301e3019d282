//go:build windows

package player

import (
	"errors"

	"golang.org/x/sys/windows"
)

var procGetForegroundWindow = windows.NewLazySystemDLL("user32.dll").NewProc("GetForegroundWindow")

// GetWindowHandle returns the Win32 HWND of the foreground window.
func GetWindowHandle() (int64, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return 0, errors.New("no foreground window")
	}
	return int64(hwnd), nil
}
