// Package stdnum canonicalizes ISBN, ISSN and OCLC numbers into the form
// used as the comparison key across catalogs.
package stdnum

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"bibresolver/internal/entity"
)

// ErrInvalidIdentifier is returned when a value cannot be normalized.
var ErrInvalidIdentifier = fmt.Errorf("%w: invalid identifier", entity.ErrInvalidArgument)

var (
	issnPattern  = regexp.MustCompile(`^\d{4}[- ]?\d{3}[\dXx]$`)
	oclcMarkers  = []string{"OCoLC", "ocm", "ocn"}
	kindsByLabel = map[string]entity.Kind{
		"isbn": entity.KindISBN,
		"issn": entity.KindISSN,
		"oclc": entity.KindOCLC,
	}
)

// ParseKind maps a request label onto a Kind.
func ParseKind(label string) (entity.Kind, error) {
	kind, ok := kindsByLabel[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("%w: unsupported number type %q", entity.ErrInvalidArgument, label)
	}
	return kind, nil
}

// Normalize returns the canonical comparison form of value. It is idempotent.
func Normalize(value string, kind entity.Kind) (string, error) {
	var out string
	switch kind {
	case entity.KindISBN:
		out = normalizeISBN(value)
		if len(out) != 10 && len(out) != 13 {
			return "", fmt.Errorf("%w: isbn %q", ErrInvalidIdentifier, value)
		}
	case entity.KindISSN:
		out = normalizeISSN(value)
	case entity.KindOCLC:
		out = digitsOnly(value)
	default:
		return "", fmt.Errorf("%w: unsupported number type %q", entity.ErrInvalidArgument, kind)
	}
	if out == "" {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, value)
	}
	return out, nil
}

// New builds a StandardNumber, normalizing value.
func New(value string, kind entity.Kind) (entity.StandardNumber, error) {
	norm, err := Normalize(value, kind)
	if err != nil {
		return entity.StandardNumber{}, err
	}
	return entity.StandardNumber{Value: value, Kind: kind, Normalized: norm}, nil
}

// ValidISSN reports whether display (or its first token) looks like an ISSN.
func ValidISSN(display string) bool {
	display = strings.TrimSpace(display)
	return issnPattern.MatchString(display) || issnPattern.MatchString(firstToken(display))
}

// HasOCLCMarker reports whether display carries an OCLC prefix.
func HasOCLCMarker(display string) bool {
	for _, m := range oclcMarkers {
		if strings.Contains(display, m) {
			return true
		}
	}
	return false
}

// ISBN: first token only, so "0395080311 (pbk.)" keeps the number and drops the qualifier.
func normalizeISBN(value string) string {
	var b strings.Builder
	for _, r := range firstToken(value) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('X')
		}
	}
	return b.String()
}

func normalizeISSN(value string) string {
	s := strings.ToUpper(strings.TrimSpace(value))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstToken(value string) string {
	fields := strings.FieldsFunc(value, unicode.IsSpace)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
