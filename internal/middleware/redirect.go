package middleware

import (
	"net/url"
	"strings"
)

// RedirectPolicy decides which post-login redirect targets are allowed
type RedirectPolicy struct {
	Origins    []string
	HostSuffix string
	Fallback   string
}

// DefaultRedirectPolicy allows the production site and preview deploys
var DefaultRedirectPolicy = RedirectPolicy{
	Origins: []string{
		"https://localtradefinder-uk.com",
		"https://www.localtradefinder-uk.com",
	},
	HostSuffix: ".netlify.app",
	Fallback:   "https://localtradefinder-uk.com/#type=customer_review",
}

// SafeRedirect returns raw if the default policy allows it, otherwise the fallback
func SafeRedirect(raw string) string {
	return DefaultRedirectPolicy.Sanitize(raw)
}

// Sanitize returns raw unchanged when its origin is allow-listed or its host
// ends with the preview suffix. Anything else yields the fallback.
func (p RedirectPolicy) Sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return p.Fallback
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return p.Fallback
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "https" && scheme != "http" {
		return p.Fallback
	}

	origin := scheme + "://" + strings.ToLower(hostWithoutDefaultPort(scheme, u))
	for _, allowed := range p.Origins {
		if origin == allowed {
			return raw
		}
	}

	if p.HostSuffix != "" && strings.HasSuffix(strings.ToLower(u.Hostname()), p.HostSuffix) {
		return raw
	}

	return p.Fallback
}

func hostWithoutDefaultPort(scheme string, u *url.URL) string {
	port := u.Port()
	if port == "" || (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		return u.Hostname()
	}
	return u.Host
}
