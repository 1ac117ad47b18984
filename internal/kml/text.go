// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kml

import (
	"regexp"
	"strings"
)

var (
	idStrip    = regexp.MustCompile(`[^0-9a-z\- ]+`)
	idCollapse = regexp.MustCompile(`[ -]+`)

	nbsp       = regexp.MustCompile(`[\x{00a0}]+`)
	lineBreaks = regexp.MustCompile(`<br>`)
	tags       = regexp.MustCompile(`<[^>]*>`)
)

// ToID derives a slug from a display name: lowercase, alphanumerics and
// hyphens only, runs of spaces and hyphens collapsed to one hyphen.
func ToID(name string) string {
	id := idStrip.ReplaceAllString(strings.ToLower(name), "")
	return idCollapse.ReplaceAllString(id, "-")
}

// Cleanup normalizes description text from the KML export: non-breaking
// spaces become regular spaces, typographic apostrophes become ASCII,
// <br> becomes a newline, and remaining markup is stripped.
func Cleanup(text string) string {
	text = nbsp.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "’", "'")
	text = lineBreaks.ReplaceAllString(text, "\n")
	text = tags.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
