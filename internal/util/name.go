package util

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxLength = 64

	volumeMarker = "_Volume"
	ellipsis     = "..."
)

var breakpoints = []string{".", ",", ";", " "}

/*
Truncate shortens a series name or a file name of the form <series>_Volume<info>.<ext>
for display. Only the series part before the _Volume marker is ever shortened, and
only when the marker sits beyond maxLength. Underscores become spaces, the extension
is kept as is.
*/
func Truncate(text string, maxLength int) string {
	base, ext := splitExt(text)

	idx := strings.Index(base, volumeMarker)
	if idx < 0 || utf8.RuneCountInString(base[:idx]) <= maxLength {
		return spaced(base) + ext
	}

	series := spaced(base[:idx])
	if utf8.RuneCountInString(series) > maxLength {
		series = shorten(series, maxLength)
	}

	return series + spaced(base[idx:]) + ext
}

// Stem returns the file name without its extension.
func Stem(name string) string {
	base, _ := splitExt(name)

	return base
}

func shorten(series string, maxLength int) string {
	if maxLength < len(ellipsis) {
		maxLength = len(ellipsis)
	}

	runes := []rune(series)
	head := string(runes[:min(maxLength, len(runes))])

	// Each breakpoint is tried on its own, in priority order.
	for _, bp := range breakpoints {
		if pos := strings.LastIndex(head, bp); pos >= 0 {
			return head[:pos] + ellipsis
		}
	}

	return string(runes[:maxLength-len(ellipsis)]) + ellipsis
}

// splitExt returns the base name and the extension including its leading dot.
func splitExt(name string) (string, string) {
	pos := strings.LastIndex(name, ".")
	if pos < 0 {
		return name, ""
	}

	return name[:pos], name[pos:]
}

func spaced(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
