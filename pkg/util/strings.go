package util

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxLogSize is the default maximum size of a string written to a log record.
const MaxLogSize = 256

// Truncate shortens s to at most maxSize bytes, appending "...(truncated)"
// when it cuts. The cut never splits a UTF-8 sequence. If maxSize <= 0,
// MaxLogSize is used.
func Truncate(s string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogSize
	}
	if len(s) <= maxSize {
		return s
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}

// SafeFilePath cleans a relative path and reports whether it stays inside
// the directory it is relative to.
func SafeFilePath(p string) (string, bool) {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/") {
		return "", false
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(filepath.ToSlash(clean), "../") {
		return "", false
	}
	return clean, true
}
