package trackable

import (
	stdruntime "runtime"

	"github.com/secureworks/trackable/internal/runtime"
)

// Here returns the Location of its caller, carrying the given message.
func Here(message string) Location {
	return locationFromFrame(runtime.Caller(1), message)
}

// HereAt returns the Location of a frame on the caller's stack. The
// argument skipCallers is the number of frames to skip over, so
// HereAt(0, msg) is the same as Here(msg).
func HereAt(skipCallers int, message string) Location {
	return locationFromFrame(runtime.Caller(skipCallers+1), message)
}

// LocationFromPC creates a Location from a program counter as returned
// by runtime.Callers.
func LocationFromPC(pc uintptr, message string) Location {
	return locationFromFrame(runtime.FrameForPC(pc), message)
}

func locationFromFrame(fr stdruntime.Frame, message string) Location {
	if fr.Function == "" && fr.File == "" {
		return NewLocation("", "unknown", 0, message)
	}
	return NewLocation(runtime.PackagePath(fr.Function), fr.File, uint32(fr.Line), message)
}
