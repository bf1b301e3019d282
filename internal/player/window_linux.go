//go:build linux

package player

import (
	"errors"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// GetWindowHandle returns the X11 window ID of the currently focused window,
// which is the game window right after it was shown or clicked.
func GetWindowHandle() (int64, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return 0, fmt.Errorf("connect to X server: %w", err)
	}
	defer conn.Close()

	reply, err := xproto.GetInputFocus(conn).Reply()
	if err != nil {
		return 0, fmt.Errorf("query input focus: %w", err)
	}
	// 0 is None, 1 is PointerRoot; neither is a real window.
	if reply.Focus <= 1 {
		return 0, errors.New("no focused X11 window")
	}
	return int64(reply.Focus), nil
}
