package mail

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	namedSender  = regexp.MustCompile(`^"?([^"<]+)"?\s*<.+>$`)
	angleAddress = regexp.MustCompile(`<([^>]+)>`)
)

// ParseSender splits a From header into display name and address.
// Without angle brackets the whole value is used for both.
func ParseSender(from string) (name, address string) {
	from = strings.TrimSpace(from)

	address = from
	if m := angleAddress.FindStringSubmatch(from); m != nil {
		address = m[1]
	}

	if m := namedSender.FindStringSubmatch(from); m != nil {
		name = strings.TrimSpace(m[1])
	} else {
		name = strings.TrimSpace(strings.SplitN(from, "<", 2)[0])
	}
	if name == "" {
		name = address
	}
	return name, address
}

// FormatDate renders a Date header as "Jan 2", falling back to the raw value
func FormatDate(header string) string {
	t, err := mail.ParseDate(strings.TrimSpace(header))
	if err != nil {
		return header
	}
	return t.Format("Jan 2")
}
