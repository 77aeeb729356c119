// Package z3950 reaches affiliate catalogs through their search-and-retrieve
// gateway and turns the text records it returns into holdings.
package z3950

import (
	"fmt"
	"strings"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"
)

// Target addresses one affiliate library's gateway.
type Target = config.Z3950Target

// Attribute is a Bib-1 use attribute.
type Attribute string

const (
	AttrBibID Attribute = "1=12"
	AttrISBN  Attribute = "1=7"
	AttrISSN  Attribute = "1=8"
	AttrOCLC  Attribute = "1=1007"
)

// AttributeFor returns the use attribute searching a standard number kind.
func AttributeFor(kind entity.Kind) (Attribute, bool) {
	switch kind {
	case entity.KindISBN:
		return AttrISBN, true
	case entity.KindISSN:
		return AttrISSN, true
	case entity.KindOCLC:
		return AttrOCLC, true
	}
	return "", false
}

// Query is a single-term search.
type Query struct {
	Attribute Attribute
	Term      string
}

// PQF renders the query in prefix query format.
func (q Query) PQF() string {
	term := strings.TrimSpace(q.Term)
	if strings.ContainsAny(term, " \t") {
		term = `"` + strings.ReplaceAll(term, `"`, `\"`) + `"`
	}
	return fmt.Sprintf("@attr %s %s", q.Attribute, term)
}
