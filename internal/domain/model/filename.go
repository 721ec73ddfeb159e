package model

import (
	"regexp"
	"strings"
)

const maxFilenameLength = 200

var (
	numericCharRef    = regexp.MustCompile(`&#\d+;`)
	illegalFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// SanitizeFilename makes a title safe to use as a download file name.
// It strips HTML numeric character references, replaces reserved characters
// with underscores, trims whitespace and truncates to 200 characters.
func SanitizeFilename(name string) string {
	name = numericCharRef.ReplaceAllString(name, "")
	name = illegalFilenameRe.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	runes := []rune(name)
	if len(runes) > maxFilenameLength {
		name = string(runes[:maxFilenameLength])
	}
	return name
}
