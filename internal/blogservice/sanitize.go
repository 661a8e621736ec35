package blogservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// SanitizeBody strips script tags from an MDX document. Stored artifacts are
// kept verbatim; this runs on the serving path.
func SanitizeBody(body string) string {
	return scriptTagPattern.ReplaceAllString(body, "")
}
