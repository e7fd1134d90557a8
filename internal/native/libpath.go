package native

import (
	"os"
	"path/filepath"
	"runtime"
)

// LibraryEnv overrides the GLFW shared library location.
const LibraryEnv = "NATIVEWINDOW_GLFW"

// libraryNames returns the file names GLFW ships under on goos.
func libraryNames(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"libglfw.3.dylib", "libglfw.dylib"}
	case "windows":
		return []string{"glfw3.dll"}
	default:
		return []string{"libglfw.so.3", "libglfw.so"}
	}
}

// CandidatePaths lists where Load looks for the library, most specific
// first: the explicit path, the environment override, next to the
// executable, the working directory, well-known prefixes, then bare names
// for the dynamic loader's own search.
func CandidatePaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if env := os.Getenv(LibraryEnv); env != "" {
		paths = append(paths, env)
	}

	names := libraryNames(runtime.GOOS)
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Join(exeDir, "..", "lib"))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/opt/homebrew/lib", "/usr/local/lib")
	case "freebsd":
		dirs = append(dirs, "/usr/local/lib")
	}

	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				paths = append(paths, p)
			}
		}
	}

	return append(paths, names...)
}
