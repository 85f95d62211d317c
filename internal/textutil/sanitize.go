package textutil

import (
	"runtime"
	"strings"
)

// titleReplacer applies the readable substitutions before host rules run.
var titleReplacer = strings.NewReplacer(
	":", "_",
	"\"", "'",
)

const windowsForbidden = `<>:"/\|?*`

// SanitizeFileName turns a title into a file name stem for the current host.
// Colons become underscores and double quotes become single quotes; any
// remaining character the host file system rejects becomes an underscore.
// Other characters, including any Unicode composition form, pass through
// as given. The result is trimmed, so whitespace-only input yields "".
func SanitizeFileName(name string) string {
	return sanitizeFor(name, runtime.GOOS)
}

func sanitizeFor(name, goos string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = titleReplacer.Replace(name)
	forbidden := forbiddenFunc(goos)
	name = strings.Map(func(r rune) rune {
		if forbidden(r) {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

func forbiddenFunc(goos string) func(rune) bool {
	if goos == "windows" {
		return func(r rune) bool {
			return r < 0x20 || strings.ContainsRune(windowsForbidden, r)
		}
	}
	return func(r rune) bool {
		return r == '/' || r == 0
	}
}
