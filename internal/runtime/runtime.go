package runtime

import (
	"runtime"
	"strings"
)

// Caller returns the frame skip levels above the caller of Caller. It
// returns an empty frame when the stack is not that deep.
//
//go:noinline
func Caller(skip int) runtime.Frame {
	var pcs [3]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	if n == 0 {
		return runtime.Frame{}
	}
	fr, _ := runtime.CallersFrames(pcs[:n]).Next()
	return fr
}

// FrameForPC expands a program counter, as returned by runtime.Callers,
// into a frame.
func FrameForPC(pc uintptr) runtime.Frame {
	if pc == 0 {
		return runtime.Frame{}
	}
	fr, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return fr
}

// PackagePath extracts the import path of the package a fully
// qualified function name belongs to:
//
//	PackagePath("github.com/a/b.(*T).M.func1") // "github.com/a/b"
//
// Dots in the last path element are escaped as "%2e" by the linker.
func PackagePath(function string) string {
	slash := strings.LastIndex(function, "/")
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot >= 0 {
		function = function[:slash+1+dot]
	}
	return strings.ReplaceAll(function, "%2e", ".")
}
