package catalog

import (
	"context"
	"strconv"
	"time"

	"bibresolver/internal/entity"
	"bibresolver/internal/marc"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseStatusDate parses a gateway date string; empty or unparseable
// values yield nil.
func ParseStatusDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Source serves holdings of catalog-native libraries straight from the
// catalog store.
type Source struct {
	repo Repository
}

func NewSource(repo Repository) *Source {
	return &Source{repo: repo}
}

// Holdings returns the raw holdings of bib with their items and links.
// Items are not deduplicated here.
func (s *Source) Holdings(ctx context.Context, bib entity.BibRecord) ([]entity.Holding, error) {
	rows, err := s.repo.Holdings(ctx, bib.BibID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	mfhdIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		mfhdIDs = append(mfhdIDs, row.MfhdID)
	}

	itemRows, err := s.repo.Items(ctx, mfhdIDs)
	if err != nil {
		return nil, err
	}
	linkRows, err := s.repo.Links(ctx, mfhdIDs)
	if err != nil {
		return nil, err
	}

	callNumbers := make(map[string]string, len(rows))
	for _, row := range rows {
		callNumbers[row.MfhdID] = row.CallNumber
	}

	items := make(map[string][]entity.Item)
	for _, ir := range itemRows {
		code, err := strconv.Atoi(ir.StatusCode)
		if err != nil {
			code = entity.StatusUnknown
		}
		items[ir.MfhdID] = append(items[ir.MfhdID], entity.Item{
			ItemID:            ir.ItemID,
			MfhdID:            ir.MfhdID,
			BibID:             bib.BibID,
			LibraryCode:       bib.LibraryCode,
			CallNumber:        callNumbers[ir.MfhdID],
			Enumeration:       ir.Enumeration,
			StatusCode:        code,
			StatusDescription: ir.StatusDescription,
			StatusDate:        ParseStatusDate(ir.StatusDate),
			PermLocation:      ir.PermLocation,
			TempLocation:      ir.TempLocation,
		})
	}

	links := make(map[string][]entity.ElectronicLink)
	for _, lr := range linkRows {
		if link, ok := marc.ParseLink(lr.Field); ok {
			links[lr.MfhdID] = append(links[lr.MfhdID], link)
		}
	}

	out := make([]entity.Holding, 0, len(rows))
	for _, row := range rows {
		h := entity.Holding{
			BibID:        row.BibID,
			MfhdID:       row.MfhdID,
			LibraryCode:  row.LibraryCode,
			LibraryName:  row.LibraryName,
			LocationID:   row.LocationID,
			LocationName: row.LocationName,
			CallNumber:   row.CallNumber,
			Items:        items[row.MfhdID],
			Links:        links[row.MfhdID],
			Source:       entity.SourceCatalog,
		}
		if h.Items == nil {
			h.Items = []entity.Item{}
		}
		if h.Links == nil {
			h.Links = []entity.ElectronicLink{}
		}
		h.Electronic = len(h.Items) == 0 && h.HasURL()
		out = append(out, h)
	}
	return out, nil
}
