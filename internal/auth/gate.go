package auth

import "strings"

// Gate holds the admin email allow-list. Matching is case-insensitive and
// ignores surrounding whitespace; the list is fixed at startup.
type Gate struct {
	allowed map[string]struct{}
}

// NewGate builds a gate from the configured allow-list. Empty entries are
// dropped.
func NewGate(emails []string) *Gate {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if e == "" {
			continue
		}
		allowed[e] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// IsAdminEmail reports whether email is on the allow-list.
func (g *Gate) IsAdminEmail(email string) bool {
	_, ok := g.allowed[normalizeEmail(email)]
	return ok
}

// Size reports how many emails are allow-listed, for startup logging.
func (g *Gate) Size() int {
	return len(g.allowed)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
