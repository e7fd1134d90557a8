//go:build !(darwin || linux || freebsd)

package native

// GLFW is unavailable here; use the simulator backend instead.
type GLFW struct {
	Library
}

// Load always fails on platforms without purego callback support.
func Load(path string) (*GLFW, error) {
	return nil, ErrUnsupportedPlatform
}

// Path returns an empty string.
func (g *GLFW) Path() string { return "" }
