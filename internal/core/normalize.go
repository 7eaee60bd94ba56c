package core

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

const defaultImageMIME = "image/jpeg"

var urlPattern = regexp.MustCompile(`(https?://[^\s]+)|(www\.[^\s]+)|([a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\.[a-zA-Z]{2,})`)

// ExtractURL returns the first URL-like token in text. Scheme-less matches are
// prefixed with https://.
func ExtractURL(text string) (string, bool) {
	match := urlPattern.FindString(text)
	if match == "" {
		return "", false
	}
	if !strings.HasPrefix(match, "http") {
		match = "https://" + match
	}
	return match, true
}

// NormalizeImage strips a data URL prefix and reports the image mime type
func NormalizeImage(s string) (data string, mimeType string) {
	mimeType = defaultImageMIME
	idx := strings.Index(s, ",")
	if idx < 0 {
		return s, mimeType
	}

	header := s[:idx]
	data = s[idx+1:]
	if data == "" {
		// Nothing after the comma, keep the input as is
		return s, mimeType
	}

	if strings.HasPrefix(header, "data:") {
		m := strings.TrimPrefix(header, "data:")
		if semi := strings.Index(m, ";"); semi >= 0 {
			m = m[:semi]
		}
		if m != "" {
			mimeType = m
		}
	}
	return data, mimeType
}

// Hostname returns the host of rawURL without any port
func Hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", errors.New("url has no host")
	}
	return strings.ToLower(host), nil
}
