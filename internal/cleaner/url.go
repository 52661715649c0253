package cleaner

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether s is an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}
