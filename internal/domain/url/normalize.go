// Package url provides URL normalization for the embeddable panel.
package url

import (
	"net/url"
	"strings"
)

// Normalize adds https:// prefix if missing for URL-like inputs.
// Returns the input unchanged if it already has a scheme or doesn't look like a URL.
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	// Already has scheme
	switch {
	case strings.HasPrefix(input, "http://"):
		return input
	case strings.HasPrefix(input, "https://"):
		return input
	case strings.HasPrefix(input, "file://"):
		return input
	case strings.HasPrefix(input, "about:"):
		return input
	}

	// Looks like a URL (contains . and no spaces)
	if strings.Contains(input, ".") && !strings.Contains(input, " ") {
		return "https://" + input
	}

	return input
}

// ToEmbed rewrites known video-host watch URLs to their embeddable form so
// they render inside a frame instead of bouncing to the full site:
//
//	youtube.com/watch?v=ID  -> youtube.com/embed/ID
//	youtu.be/ID             -> youtube.com/embed/ID
//
// Anything else passes through unchanged, including URLs that are already
// in embed form.
func ToEmbed(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if parsed.Path != "/watch" {
			return rawURL
		}
		id := parsed.Query().Get("v")
		if id == "" {
			return rawURL
		}
		return embedURL(id)
	case "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if id == "" || strings.Contains(id, "/") {
			return rawURL
		}
		return embedURL(id)
	}

	return rawURL
}

// ForPanel normalizes raw panel input for navigation: scheme defaulting
// first, then the embed rewrite.
func ForPanel(input string) string {
	return ToEmbed(Normalize(input))
}

func embedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}
