package pkg

import (
	"os/exec"
	"strings"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// TrimmedBytesToString is BytesToString without surrounding whitespace,
// used for command outputs (e.g. git commit hash)
func TrimmedBytesToString(buf []byte) string {
	return strings.TrimSpace(BytesToString(buf))
}

// LastCommitHash reports the HEAD commit of the working directory, used as
// version info; assumes the binary runs from the project checkout.
func LastCommitHash() (string, error) {
	stdout, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return TrimmedBytesToString(stdout), nil
}
