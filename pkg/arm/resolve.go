package arm

import (
	"regexp"
	"strings"
)

// Resource names in a deployment template come in several encodings:
// plain literals, path expressions like
// "[concat(parameters('factoryName'), '/PL_INGEST')]", and simple
// variable calls like "[variables('factoryId')]". The resolver turns
// any of them into a plain identifier and never fails; when no pattern
// applies it degrades to the decorated input with the bracket/quote
// characters trimmed.

var (
	pathSegmentPattern  = regexp.MustCompile(`/\s*([^'/\\]+)`)
	callArgumentPattern = regexp.MustCompile(`\('([^']+)'\)`)
	factoryScopePattern = regexp.MustCompile(`factories/\s*([^'/]*)`)
)

// nameMatcher attempts one extraction pattern. Matchers are pure and
// report whether they applied.
type nameMatcher func(string) (string, bool)

var nameMatchers = []nameMatcher{
	matchPathSegment,
	matchCallArgument,
}

// matchPathSegment extracts the trailing path segment, e.g. the
// PL_INGEST in "...'/PL_INGEST')]" or the DS_RAW in
// "...'/datasets/DS_RAW')]", stripped of quote/bracket decoration.
func matchPathSegment(raw string) (string, bool) {
	ms := pathSegmentPattern.FindAllStringSubmatch(raw, -1)
	if ms == nil {
		return "", false
	}
	last := ms[len(ms)-1][1]
	return strings.Trim(strings.TrimSpace(last), `[]()'" `), true
}

// matchCallArgument extracts the quoted argument of a single-argument
// call, e.g. the factoryId in "[variables('factoryId')]".
func matchCallArgument(raw string) (string, bool) {
	m := callArgumentPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

const decorationCutset = "[]'\" "

// ResolveName resolves a raw template name to a plain identifier.
// Names without the leading reference marker are returned unchanged.
func ResolveName(raw string) string {
	if !strings.HasPrefix(raw, "[") {
		return raw
	}
	for _, match := range nameMatchers {
		if name, ok := match(raw); ok {
			return name
		}
	}
	return strings.Trim(raw, decorationCutset)
}

// DependencyTypeTag derives the dependency kind from a raw dependsOn
// expression: the substring between "factories/" and the next quote or
// separator. "unknown" when the expression has no factory scope.
func DependencyTypeTag(raw string) string {
	m := factoryScopePattern.FindStringSubmatch(raw)
	if m == nil {
		return "unknown"
	}
	return m[1]
}
