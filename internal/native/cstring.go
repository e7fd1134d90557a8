package native

import "unsafe"

// goString copies a NUL-terminated C string into Go memory.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := unsafe.Pointer(p) //nolint:govet // pointer owned by the native library
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}

// goStrings copies an array of count C strings.
func goStrings(p uintptr, count int) []string {
	if p == 0 || count <= 0 {
		return nil
	}
	ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(p)), count) //nolint:govet // native array
	out := make([]string, count)
	for i, s := range ptrs {
		out[i] = goString(s)
	}
	return out
}

// cArray copies count elements of a native array into a Go slice.
func cArray[T any](p uintptr, count int32) []T {
	if p == 0 || count <= 0 {
		return nil
	}
	src := unsafe.Slice((*T)(unsafe.Pointer(p)), int(count)) //nolint:govet // native array
	out := make([]T, len(src))
	copy(out, src)
	return out
}
