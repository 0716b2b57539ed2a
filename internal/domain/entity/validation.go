package entity

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateArticleURL checks that rawURL is an absolute http(s) URL with a host.
// It performs no network I/O: this is the cheap format-only check applied to sample
// articles and the first gate of the link validator.
// The no-link placeholder and the empty string are always rejected.
func ValidateArticleURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" || trimmed == NoLinkURL {
		return &ValidationError{Field: "url", Message: "URL is required", Err: ErrInvalidURL}
	}

	if len(trimmed) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
			Err:     ErrInvalidURL,
		}
	}

	parsedURL, err := url.Parse(trimmed)
	if err != nil {
		return &ValidationError{Field: "url", Message: err.Error(), Err: ErrInvalidURL}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme", Err: ErrInvalidURL}
	}

	if parsedURL.Hostname() == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host", Err: ErrInvalidURL}
	}

	return nil
}

// IsPrivateIP checks if an IP address is in a private or restricted range:
// loopback, link-local (including cloud metadata endpoints), RFC 1918 networks,
// unique local IPv6 addresses and the unspecified address.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}
	return false
}
