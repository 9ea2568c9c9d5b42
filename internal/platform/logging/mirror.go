package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives a copy of every emitted log entry. Mirrors must not
// call back into the logger.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirrorFn atomic.Pointer[MirrorFunc]

// SetMirror installs fn as the global log mirror. Passing nil removes the
// current mirror.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirrorFn.Store(nil)
		return
	}
	mirrorFn.Store(&fn)
}

func activeMirror() MirrorFunc {
	ptr := mirrorFn.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}
