package entity

import "time"

const (
	// StatusUnknown marks an item with no status record.
	StatusUnknown    = -1
	StatusCharged    = 0
	StatusNotCharged = 1

	StatusDescCharged    = "Charged"
	StatusDescNotCharged = "Not Charged"
)

// Holding sources.
const (
	SourceCatalog   = "catalog"
	SourceAffiliate = "z3950"
)

type ElectronicLink struct {
	URL       string `json:"url"`
	Note      string `json:"note,omitempty"`
	Materials string `json:"materials,omitempty"`
}

type Item struct {
	ItemID            string     `json:"item_id"`
	MfhdID            string     `json:"mfhd_id"`
	BibID             string     `json:"bib_id"`
	LibraryCode       string     `json:"library_code"`
	CallNumber        string     `json:"call_number,omitempty"`
	Enumeration       string     `json:"enumeration,omitempty"`
	StatusCode        int        `json:"status_code"`
	StatusDescription string     `json:"status_description"`
	StatusDate        *time.Time `json:"status_date,omitempty"`
	PermLocation      string     `json:"perm_location,omitempty"`
	TempLocation      string     `json:"temp_location,omitempty"`
	Eligible          bool       `json:"eligible"`
}

// Available reports whether the item is on the shelf.
func (i Item) Available() bool {
	return i.StatusDescription == StatusDescNotCharged
}

type Holding struct {
	BibID           string           `json:"bib_id"`
	MfhdID          string           `json:"mfhd_id"`
	LibraryCode     string           `json:"library_code"`
	LibraryName     string           `json:"library_name,omitempty"`
	LocationID      string           `json:"location_id,omitempty"`
	LocationName    string           `json:"location_name"`
	DisplayLocation string           `json:"display_location"`
	CallNumber      string           `json:"call_number,omitempty"`
	Note            string           `json:"note,omitempty"`
	Items           []Item           `json:"items"`
	Links           []ElectronicLink `json:"links"`
	Eligible        bool             `json:"eligible"`
	Electronic      bool             `json:"electronic"`
	Fallback        bool             `json:"fallback,omitempty"`
	Source          string           `json:"source"`
}

// Available reports whether any item of the holding is on the shelf.
func (h Holding) Available() bool {
	for _, it := range h.Items {
		if it.Available() {
			return true
		}
	}
	return false
}

// HasURL reports whether the holding carries a link with a non-empty URL.
func (h Holding) HasURL() bool {
	for _, l := range h.Links {
		if l.URL != "" {
			return true
		}
	}
	return false
}

// Record is the consolidated view returned for one resolution request.
type Record struct {
	Bib           BibRecord `json:"bib"`
	RelatedBibIDs []string  `json:"related_bib_ids"`
	Holdings      []Holding `json:"holdings"`
	ILLiadLink    string    `json:"illiad_link,omitempty"`
}
