//go:build linux

package ui

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	"github.com/depeter/mediahand/internal/log"
)

const evKey = 0x01

// inputEventSize is the size of a Linux input_event struct (timeval + u16 + u16 + s32).
var inputEventSize = int(unsafe.Sizeof(struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}{}))

func init() {
	go watchEvdev()
}

// watchEvdev reads every /dev/input/event* device for key presses. Remotes
// send KEY_BACK and the media keys on devices X does not map to keys.
func watchEvdev() {
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(matches) == 0 {
		return
	}
	for _, path := range matches {
		go readEvdev(path)
	}
}

func readEvdev(path string) {
	f, err := os.Open(path)
	if err != nil {
		// Usually no permission; the user is not in the input group.
		return
	}
	defer f.Close()

	device := filepath.Base(path)
	logger := log.WithComponent("evdev").With().Str("device", device).Logger()
	buf := make([]byte, inputEventSize)
	for {
		if _, err := f.Read(buf); err != nil {
			logger.Debug().Err(err).Msg("device closed")
			return
		}

		// type at 16, code at 18, value at 20
		typ := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))
		if typ != evKey || value != 1 {
			continue
		}

		remote.record(EvdevEvent{Time: time.Now(), Device: device, Type: typ, Code: code, Value: value})
		logger.Debug().Uint16("code", code).Msg("key press")
	}
}
