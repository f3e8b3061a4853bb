package umoh

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{5,}$`)
)

// ClassifyContact turns a raw contact string into a typed contact point.
// Emails and phone numbers are recognized by shape; everything else is
// treated as a website URL, with https:// prepended when the scheme is
// missing.
func ClassifyContact(value string) ContactPoint {
	value = strings.TrimSpace(value)
	switch {
	case emailPattern.MatchString(value):
		return ContactPoint{Type: ContactEmail, Value: value}
	case phonePattern.MatchString(value):
		return ContactPoint{Type: ContactPhone, Value: value}
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		value = "https://" + value
	}
	return ContactPoint{Type: ContactWebsite, Value: value}
}

// ContactPointOf returns the first contact point of the space as a plain
// string, or the empty string when there is none.
func ContactPointOf(s Space) string {
	if len(s.ContactPoints) == 0 {
		return ""
	}
	return s.ContactPoints[0].Value
}
