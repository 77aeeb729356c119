package bib

import (
	"context"
	"sort"

	"bibresolver/internal/catalog"
	"bibresolver/internal/config"
	"bibresolver/internal/entity"
	"bibresolver/internal/stdnum"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// describeLimit caps concurrent member lookups per expansion.
const describeLimit = 8

// Expander discovers the records sharing standard numbers with a bib.
type Expander struct {
	repo      catalog.Repository
	libraries config.Libraries
}

func NewExpander(repo catalog.Repository, libraries config.Libraries) *Expander {
	return &Expander{repo: repo, libraries: libraries}
}

// StandardNumbers classifies index entries into standard numbers, dropping
// ISBNs that do not normalize, ISSNs that fail the shape check and OCLC
// headings without a recognized prefix.
func StandardNumbers(entries []catalog.IndexEntry) []entity.StandardNumber {
	var out []entity.StandardNumber
	seen := make(map[entity.StandardNumber]bool)
	for _, e := range entries {
		kind, ok := catalog.KindOf(e.Code)
		if !ok {
			continue
		}
		switch kind {
		case entity.KindISSN:
			if !stdnum.ValidISSN(e.Display) {
				continue
			}
		case entity.KindOCLC:
			if !stdnum.HasOCLCMarker(e.Display) {
				continue
			}
		}
		num, err := stdnum.New(e.Display, kind)
		if err != nil {
			continue
		}
		key := entity.StandardNumber{Kind: num.Kind, Normalized: num.Normalized}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, num)
	}
	return out
}

// Expand loads bibID and every unsuppressed record sharing one of its
// standard numbers. Members include the anchor and are ordered preferred,
// shared, then other libraries. Failing per-kind lookups are logged and
// contribute nothing.
func (e *Expander) Expand(ctx context.Context, bibID string) (entity.RelatedBibSet, error) {
	anchor, err := e.repo.Bib(ctx, bibID)
	if err != nil {
		return entity.RelatedBibSet{}, err
	}
	entries, err := e.repo.IndexEntries(ctx, bibID)
	if err != nil {
		return entity.RelatedBibSet{}, err
	}
	anchor.StandardNumbers = StandardNumbers(entries)

	perKind := make([][]catalog.BibRef, len(entity.Kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range entity.Kinds {
		values := anchor.Numbers(kind)
		if len(values) == 0 {
			continue
		}
		g.Go(func() error {
			refs, err := e.repo.RelatedBibs(gctx, kind, values)
			if err != nil {
				log.Warn().Err(err).Str("bib_id", bibID).Str("kind", string(kind)).Msg("related bib lookup failed")
				return nil
			}
			perKind[i] = refs
			return nil
		})
	}
	_ = g.Wait()

	anchorKey := anchor.BibID + "/" + anchor.LibraryCode
	var members []entity.BibRecord
	seen := make(map[string]bool)
	for _, refs := range perKind {
		for _, ref := range refs {
			key := ref.BibID + "/" + ref.LibraryCode
			if seen[key] {
				continue
			}
			seen[key] = true
			if key == anchorKey {
				members = append(members, anchor)
				continue
			}
			members = append(members, ref.Record())
		}
	}
	if !seen[anchorKey] {
		members = append([]entity.BibRecord{anchor}, members...)
	}

	e.describe(ctx, members, anchorKey)

	sort.SliceStable(members, func(i, j int) bool {
		return e.libraries.Rank(members[i].LibraryCode) < e.libraries.Rank(members[j].LibraryCode)
	})

	return entity.RelatedBibSet{Anchor: anchor, Members: members}, nil
}

// describe replaces member references with their full descriptions. A
// member whose description cannot be loaded stays a bare reference.
func (e *Expander) describe(ctx context.Context, members []entity.BibRecord, anchorKey string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(describeLimit)
	for i, m := range members {
		if m.BibID+"/"+m.LibraryCode == anchorKey {
			continue
		}
		g.Go(func() error {
			rec, err := e.repo.Bib(gctx, m.BibID)
			if err != nil {
				log.Warn().Err(err).Str("bib_id", m.BibID).Str("library", m.LibraryCode).Msg("member description failed")
				return nil
			}
			if rec.LibraryCode != m.LibraryCode {
				return nil
			}
			entries, err := e.repo.IndexEntries(gctx, m.BibID)
			if err != nil {
				log.Warn().Err(err).Str("bib_id", m.BibID).Msg("member index lookup failed")
			}
			rec.StandardNumbers = StandardNumbers(entries)
			if rec.LibraryName == "" {
				rec.LibraryName = m.LibraryName
			}
			members[i] = rec
			return nil
		})
	}
	_ = g.Wait()
}
