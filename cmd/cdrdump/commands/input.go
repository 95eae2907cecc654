package commands

import (
	"io"
	"os"
)

// readInput returns the bytes from path, or from stdin when path is empty.
func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
