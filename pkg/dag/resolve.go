// Package dag builds per-pipeline dependency graphs from extracted
// activity rows and validates their execution order.
package dag

import "strings"

// ResolveToken resolves a raw dependency token against the known
// activity names of one pipeline. Stages, in order: exact match;
// unique match where the token is a substring, suffix, or prefix of a
// name; unique case-insensitive substring match. A stage with several
// candidates never picks one; it falls through, and an exhausted
// resolution returns the token unchanged.
func ResolveToken(token string, names []string) string {
	for _, n := range names {
		if n == token {
			return token
		}
	}

	var matches []string
	for _, n := range names {
		if strings.Contains(n, token) || strings.HasSuffix(n, token) || strings.HasPrefix(n, token) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}

	lower := strings.ToLower(token)
	matches = matches[:0]
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}

	return token
}
