// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pagedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// pageDataVar is the variable the viewer page assigns the blob to.
const pageDataVar = "_pageData"

// SnippetLimit is how much of the rewritten text a MalformedLiteralError
// carries for offline inspection.
const SnippetLimit = 10000

var (
	// Quoted form: the array literal serialized as a JS string literal.
	quotedPattern = regexp.MustCompile(`(?s)var ` + pageDataVar + `\s*=\s*"(.+?)";`)
	// Direct form: a bare array literal.
	directPattern = regexp.MustCompile(`(?s)var ` + pageDataVar + `\s*=\s*(\[.+?\]);`)

	nanToken       = regexp.MustCompile(`\bNaN\b`)
	undefinedToken = regexp.MustCompile(`\bundefined\b`)
	trailingComma  = regexp.MustCompile(`,\s*([\]}])`)
)

// ErrPageDataNotFound reports that neither form of the _pageData assignment
// is present in the document.
var ErrPageDataNotFound = errors.New("_pageData assignment not found in document")

// MalformedLiteralError reports that the rewritten literal still failed to
// parse. Snippet holds the head of the rewritten text so the caller can
// persist it for offline inspection.
type MalformedLiteralError struct {
	Err     error
	Snippet string
}

func (e *MalformedLiteralError) Error() string {
	return fmt.Sprintf("parsing rewritten page data: %v", e.Err)
}

func (e *MalformedLiteralError) Unwrap() error { return e.Err }

// Normalize locates the _pageData assignment in html and returns the parsed
// document. The quoted form is unescaped first; in either form the
// JavaScript-only tokens (NaN, undefined, trailing commas) are rewritten to
// JSON equivalents before parsing.
//
// It returns ErrPageDataNotFound when the assignment is absent and a
// *MalformedLiteralError when the rewritten text is not valid JSON. There
// is no partial output: the result is a well-formed document or an error.
func Normalize(html string) (any, error) {
	raw, quoted, ok := locateAssignment(html)
	if !ok {
		return nil, ErrPageDataNotFound
	}

	if quoted {
		raw = decodeStringEscapes(raw)
	}

	text := rewriteTokens(raw)

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &MalformedLiteralError{Err: err, Snippet: snippet(text)}
	}
	return doc, nil
}

// locateAssignment finds the _pageData value in html. quoted reports which
// form matched: the string-literal form (needing unescaping) or the direct
// array form.
func locateAssignment(html string) (raw string, quoted, ok bool) {
	if m := quotedPattern.FindStringSubmatch(html); m != nil {
		return m[1], true, true
	}
	if m := directPattern.FindStringSubmatch(html); m != nil {
		return m[1], false, true
	}
	return "", false, false
}

// rewriteTokens substitutes the known non-JSON tokens the literal uses.
func rewriteTokens(s string) string {
	s = nanToken.ReplaceAllString(s, "null")
	s = undefinedToken.ReplaceAllString(s, "null")
	s = trailingComma.ReplaceAllString(s, "$1")
	return s
}

// decodeStringEscapes resolves JavaScript backslash escapes in s: the
// single-character escapes, \uXXXX (including surrogate pairs), and \xXX.
// Unrecognized escapes are kept verbatim rather than dropped, so malformed
// input degrades to text the JSON parser can complain about.
func decodeStringEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}

		switch s[i+1] {
		case '"', '\\', '/', '\'':
			b.WriteByte(s[i+1])
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case '0':
			b.WriteByte(0)
			i += 2
		case 'u':
			r, size, ok := decodeUnicodeEscape(s[i:])
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteRune(r)
			i += size
		case 'x':
			if i+4 <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteByte(c)
			i++
		default:
			// Unknown escape: keep both characters.
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i += 2
		}
	}
	return b.String()
}

// decodeUnicodeEscape decodes a \uXXXX escape at the start of s, combining
// surrogate pairs when the low half follows immediately. size is the number
// of input bytes consumed.
func decodeUnicodeEscape(s string) (r rune, size int, ok bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[2:6], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	r = rune(v)

	if utf16.IsSurrogate(r) && len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
		if v2, err := strconv.ParseUint(s[8:12], 16, 32); err == nil {
			if combined := utf16.DecodeRune(r, rune(v2)); combined != utf8.RuneError {
				return combined, 12, true
			}
		}
	}
	if utf16.IsSurrogate(r) {
		return utf8.RuneError, 6, true
	}
	return r, 6, true
}

// snippet returns the head of s, capped at SnippetLimit bytes.
func snippet(s string) string {
	if len(s) > SnippetLimit {
		return s[:SnippetLimit]
	}
	return s
}
