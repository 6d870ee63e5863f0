// Package emoji maps Slack emoji shortcodes to their unicode rendering.
package emoji

// Lookup returns the unicode string for a shortcode and whether the
// shortcode is known.
func Lookup(shortcode string) (string, bool) {
	s, ok := shortcodes[shortcode]
	return s, ok
}

// Render returns the unicode string for a shortcode, or the shortcode
// wrapped in colons when it is unknown (custom workspace emoji keep
// their literal form).
func Render(shortcode string) string {
	if s, ok := shortcodes[shortcode]; ok {
		return s
	}
	return ":" + shortcode + ":"
}
