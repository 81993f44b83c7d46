//go:build debug

package allocator

// In debug builds, enforce strict validation around tracking and marking.
// These hooks are absent from the non-debug build entirely (see
// debug_validate_off.go), so they cost nothing in a release binary.

func debugValidateTrack(obj *Object) {
	if obj == nil {
		panic("debug: tracking a nil object")
	}

	if obj.Type == nil {
		panic("debug: tracking an object with a nil type descriptor")
	}

	if obj.SizeBytes < HeaderSize {
		panic("debug: tracked object size smaller than header size")
	}
}

func debugValidateMark(obj *Object) {
	if obj.Type == nil {
		panic("debug: marking an object with a nil type descriptor")
	}
}
