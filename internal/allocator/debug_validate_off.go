//go:build !debug

package allocator

// No-op debug hooks for non-debug builds.

func debugValidateTrack(obj *Object) {}

func debugValidateMark(obj *Object) {}
