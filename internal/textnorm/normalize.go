// Package textnorm tokenizes and normalizes message text for word searches.
package textnorm

import "strings"

// punctuation stripped from both ends of a token. '#' is deliberately absent
// so hashtags keep their marker.
const punctuation = `.,!?()[]{}:;"'`

// Normalize strips surrounding punctuation and lower-cases the token
func Normalize(token string) string {
	return strings.ToLower(strings.Trim(token, punctuation))
}

// Tokenize splits text on whitespace
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// IsTag reports whether a normalized token is a hashtag
func IsTag(normalized string) bool {
	return len(normalized) > 1 && normalized[0] == '#'
}
