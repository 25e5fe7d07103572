package server

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// OriginPolicy decides which browser origins may call the gateway.
type OriginPolicy struct {
	exact    map[string]struct{}
	origins  []string
	patterns []originPattern
}

// originPattern matches scheme://<one or more labels><suffix>.
type originPattern struct {
	scheme string
	suffix string // ".zendesk.com" or ".zendesk.com:8443"
}

// NewOriginPolicy validates and compiles the allow-list. Exact origins must be
// scheme://host[:port]; patterns must be scheme://*.domain[:port].
func NewOriginPolicy(origins, patterns []string) (*OriginPolicy, error) {
	p := &OriginPolicy{exact: make(map[string]struct{})}

	var errs []error
	for _, raw := range origins {
		origin, err := normalizeOrigin(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := p.exact[origin]; ok {
			continue
		}
		p.exact[origin] = struct{}{}
		p.origins = append(p.origins, origin)
	}

	for _, raw := range patterns {
		pattern, err := parseOriginPattern(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.patterns = append(p.patterns, pattern)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid origin allow-list: %w", err)
	}
	return p, nil
}

// Allowed reports whether a request carrying the given Origin header may be served.
func (p *OriginPolicy) Allowed(origin string) bool {
	origin, err := normalizeOrigin(origin)
	if err != nil {
		return false
	}

	if _, ok := p.exact[origin]; ok {
		return true
	}

	scheme, host, _ := strings.Cut(origin, "://")
	for _, pattern := range p.patterns {
		if scheme != pattern.scheme || !strings.HasSuffix(host, pattern.suffix) {
			continue
		}
		sub := strings.TrimSuffix(host, pattern.suffix)
		if sub != "" && !strings.ContainsAny(sub, ":/") && !strings.HasPrefix(sub, ".") && !strings.HasSuffix(sub, ".") {
			return true
		}
	}
	return false
}

// Origins returns the normalized exact origins.
func (p *OriginPolicy) Origins() []string {
	return append([]string(nil), p.origins...)
}

func normalizeOrigin(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), "/")
	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" ||
		u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", fmt.Errorf("origin %q must look like scheme://host[:port]", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

func parseOriginPattern(raw string) (originPattern, error) {
	trimmed := strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), "/")
	scheme, rest, ok := strings.Cut(trimmed, "://*.")
	if !ok || (scheme != "http" && scheme != "https") || rest == "" || strings.ContainsAny(rest, "*/?#@") {
		return originPattern{}, fmt.Errorf("origin pattern %q must look like scheme://*.domain[:port]", raw)
	}
	return originPattern{scheme: scheme, suffix: "." + rest}, nil
}
