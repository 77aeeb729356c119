package entity

// Kind identifies the family of a standard number.
type Kind string

const (
	KindISBN Kind = "isbn"
	KindISSN Kind = "issn"
	KindOCLC Kind = "oclc"
)

// Kinds is the order in which standard number kinds are expanded and merged.
var Kinds = []Kind{KindISBN, KindISSN, KindOCLC}

// StandardNumber is an ISBN, ISSN or OCLC number attached to a bib record.
// Two numbers denote the same work iff Kind and Normalized are equal.
type StandardNumber struct {
	Value      string `json:"value"`
	Kind       Kind   `json:"kind"`
	Normalized string `json:"normalized"`
}

// Same reports whether both numbers share kind and normalized form.
func (n StandardNumber) Same(other StandardNumber) bool {
	return n.Kind == other.Kind && n.Normalized == other.Normalized
}

// BibRecord is one library's description of a work. BibID is unique only
// within LibraryCode's catalog.
type BibRecord struct {
	BibID           string           `json:"bib_id"`
	LibraryCode     string           `json:"library_code"`
	LibraryName     string           `json:"library_name,omitempty"`
	Title           string           `json:"title"`
	Author          string           `json:"author,omitempty"`
	Publisher       string           `json:"publisher,omitempty"`
	PubPlace        string           `json:"pub_place,omitempty"`
	PubYear         string           `json:"pub_year,omitempty"`
	FormatCode      string           `json:"format_code,omitempty"`
	LanguageCode    string           `json:"language_code,omitempty"`
	StandardNumbers []StandardNumber `json:"standard_numbers,omitempty"`
	MARC            []byte           `json:"-"`
}

// IsSerial reports whether the bib level of the format code is serial ("as", "bs", ...).
func (b BibRecord) IsSerial() bool {
	return len(b.FormatCode) >= 2 && b.FormatCode[1] == 's'
}

// Numbers returns the normalized standard numbers of the given kind.
func (b BibRecord) Numbers(kind Kind) []string {
	var out []string
	for _, n := range b.StandardNumbers {
		if n.Kind == kind {
			out = append(out, n.Normalized)
		}
	}
	return out
}

// RelatedBibSet groups the records that share standard numbers with Anchor.
// Members includes the anchor and is ordered by library preference.
type RelatedBibSet struct {
	Anchor  BibRecord   `json:"anchor"`
	Members []BibRecord `json:"members"`
}

// BibIDs lists member bib ids in member order.
func (s RelatedBibSet) BibIDs() []string {
	ids := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		ids = append(ids, m.BibID)
	}
	return ids
}
