//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks bibresolver/internal/catalog Repository

// Package catalog holds the read queries the resolver runs against the
// consortium catalog store.
package catalog

import (
	"bibresolver/internal/entity"
)

// BibRef is a (bib id, library) pair returned by number lookups.
type BibRef struct {
	BibID       string
	LibraryCode string
	LibraryName string
}

// Record converts the reference into a partially populated bib record.
func (r BibRef) Record() entity.BibRecord {
	return entity.BibRecord{BibID: r.BibID, LibraryCode: r.LibraryCode, LibraryName: r.LibraryName}
}

// IndexEntry is one standard-number heading attached to a bib.
type IndexEntry struct {
	Code    string
	Display string
	Normal  string
}

// HoldingRow is one MFHD of a catalog-native bib.
type HoldingRow struct {
	BibID        string
	MfhdID       string
	LibraryCode  string
	LibraryName  string
	LocationID   string
	LocationName string
	CallNumber   string
}

// ItemRow is one raw item status row. An item may appear more than once.
type ItemRow struct {
	MfhdID            string
	ItemID            string
	Enumeration       string
	StatusCode        string
	StatusDescription string
	StatusDate        string
	PermLocation      string
	TempLocation      string
}

// LinkRow is one 856 display field stored against an MFHD.
type LinkRow struct {
	MfhdID string
	Field  string
}

var indexCodes = map[entity.Kind][]string{
	entity.KindISBN: {"020A", "020N", "020Z", "020R"},
	entity.KindISSN: {"022A", "022Z", "022L"},
	entity.KindOCLC: {"035A", "0350"},
}

// IndexCodes returns the bib index codes searched for a kind.
func IndexCodes(kind entity.Kind) []string {
	return indexCodes[kind]
}

// KindOf maps an index code back to its number kind.
func KindOf(code string) (entity.Kind, bool) {
	for kind, codes := range indexCodes {
		for _, c := range codes {
			if c == code {
				return kind, true
			}
		}
	}
	return "", false
}
