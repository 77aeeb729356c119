//go:generate mockgen -destination=mock_source_test.go -package=holdings_test bibresolver/internal/holdings Source

// Package holdings collects holdings for a related bib set from the native
// catalog and affiliate gateways, then deduplicates, rates and orders them.
package holdings

import (
	"context"
	"strings"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Source yields the holdings of one bib record.
type Source interface {
	Holdings(ctx context.Context, bib entity.BibRecord) ([]entity.Holding, error)
}

// Result is the aggregated holdings of a related bib set.
type Result struct {
	Holdings []entity.Holding
	OfferILL bool
}

type Aggregator struct {
	native      Source
	affiliate   Source
	affiliates  config.Z3950
	eligibility *Eligibility
	limit       int
}

func NewAggregator(native, affiliate Source, cfg config.Config) *Aggregator {
	limit := cfg.HoldingsConcurrency
	if limit < 1 {
		limit = 1
	}
	return &Aggregator{
		native:      native,
		affiliate:   affiliate,
		affiliates:  cfg.Z3950,
		eligibility: NewEligibility(cfg.Eligibility),
		limit:       limit,
	}
}

// Aggregate fetches every member's holdings concurrently and returns them
// in member order. A failing member contributes nothing.
func (a *Aggregator) Aggregate(ctx context.Context, set entity.RelatedBibSet) (Result, error) {
	perMember := make([][]entity.Holding, len(set.Members))
	visited := make(map[string]bool)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limit)
	for i, member := range set.Members {
		src := a.native
		if a.affiliates.IsAffiliate(member.LibraryCode) {
			key := member.LibraryCode + "/" + member.BibID
			if visited[key] {
				continue
			}
			visited[key] = true
			src = a.affiliate
		}
		g.Go(func() error {
			hs, err := src.Holdings(gctx, member)
			if err != nil {
				log.Warn().Err(err).Str("bib_id", member.BibID).Str("library", member.LibraryCode).Msg("holdings lookup failed")
				return nil
			}
			perMember[i] = hs
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var out []entity.Holding
	anyEligible := false
	for i, hs := range perMember {
		member := set.Members[i]
		for _, h := range hs {
			if h.Source == entity.SourceAffiliate && !h.Fallback && len(h.Items) == 0 && len(h.Links) == 0 && h.Note == "" {
				continue
			}
			h = a.finish(h, member)
			for _, it := range h.Items {
				if it.Eligible {
					anyEligible = true
				}
			}
			out = append(out, h)
		}
	}

	return Result{
		Holdings: out,
		OfferILL: !anyEligible && !set.Anchor.IsSerial(),
	}, nil
}

func (a *Aggregator) finish(h entity.Holding, member entity.BibRecord) entity.Holding {
	if h.LibraryName == "" {
		h.LibraryName = member.LibraryName
	}
	if h.LibraryCode == "" {
		h.LibraryCode = member.LibraryCode
	}
	h.DisplayLocation = DisplayName(h.LocationName)

	items := DedupItems(h.Items)
	out := make([]entity.Item, len(items))
	for i, it := range items {
		it.Eligible = a.eligibility.Item(it)
		it.PermLocation = DisplayName(it.PermLocation)
		it.TempLocation = DisplayName(it.TempLocation)
		out[i] = it
	}
	SortItems(out)
	h.Items = out
	h.Eligible = a.eligibility.Holding(h)
	return h
}

// DisplayName strips a leading two-letter library code prefix ("GW: ").
func DisplayName(location string) string {
	if len(location) > 4 && location[2] == ':' && location[3] == ' ' && isUpper(location[0]) && isUpper(location[1]) {
		return strings.TrimSpace(location[4:])
	}
	return location
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
