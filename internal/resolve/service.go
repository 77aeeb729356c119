// Package resolve runs the full resolution pipeline: bib lookup, related
// record expansion, holdings aggregation and ordering.
package resolve

import (
	"context"
	"time"

	"bibresolver/internal/catalog"
	"bibresolver/internal/config"
	"bibresolver/internal/entity"
	"bibresolver/internal/holdings"
	"bibresolver/internal/metrics"

	"github.com/rs/zerolog/log"
)

// BibResolver maps a standard number to a bib id.
type BibResolver interface {
	Resolve(ctx context.Context, num, numType string) (string, error)
}

// Expander builds the related bib set of a bib id.
type Expander interface {
	Expand(ctx context.Context, bibID string) (entity.RelatedBibSet, error)
}

// Aggregator collects holdings for a related bib set.
type Aggregator interface {
	Aggregate(ctx context.Context, set entity.RelatedBibSet) (holdings.Result, error)
}

// Enricher is an optional outside source of bibliographic data.
type Enricher interface {
	Lookup(ctx context.Context, num string, kind entity.Kind) (*entity.BibRecord, error)
}

// Options tune the produced record.
type Options struct {
	ElectronicFirst bool
}

type Service struct {
	resolver   BibResolver
	expander   Expander
	aggregator Aggregator
	enricher   Enricher
	libraries  config.Libraries
	illiad     config.ILLiad
	metrics    metrics.Recorder
}

func NewService(resolver BibResolver, expander Expander, aggregator Aggregator, enricher Enricher, cfg config.Config, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		resolver:   resolver,
		expander:   expander,
		aggregator: aggregator,
		enricher:   enricher,
		libraries:  cfg.Libraries,
		illiad:     cfg.ILLiad,
		metrics:    rec,
	}
}

// ByNumber resolves a standard number to its preferred bib and builds the
// consolidated record for it.
func (s *Service) ByNumber(ctx context.Context, num, numType string, opts Options) (rec entity.Record, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(ctx, "resolve_number", err == nil, time.Since(start)) }()

	bibID, err := s.resolver.Resolve(ctx, num, numType)
	if err != nil {
		return entity.Record{}, err
	}
	return s.build(ctx, bibID, opts)
}

// ByBibID builds the consolidated record for a catalog bib id.
func (s *Service) ByBibID(ctx context.Context, bibID string, opts Options) (rec entity.Record, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe(ctx, "resolve_bib", err == nil, time.Since(start)) }()

	if _, err := catalog.ParseID(bibID); err != nil {
		return entity.Record{}, err
	}
	return s.build(ctx, bibID, opts)
}

func (s *Service) build(ctx context.Context, bibID string, opts Options) (entity.Record, error) {
	set, err := s.expander.Expand(ctx, bibID)
	if err != nil {
		return entity.Record{}, err
	}
	set.Anchor = s.enrich(ctx, set.Anchor)

	res, err := s.aggregator.Aggregate(ctx, set)
	if err != nil {
		return entity.Record{}, err
	}

	hs := res.Holdings
	if hs == nil {
		hs = []entity.Holding{}
	}
	holdings.SortHoldings(hs,
		holdings.ByOwnership(s.libraries),
		holdings.ByElectronic(opts.ElectronicFirst),
		holdings.ByAvailability(),
	)

	rec := entity.Record{
		Bib:           set.Anchor,
		RelatedBibIDs: set.BibIDs(),
		Holdings:      hs,
	}
	if res.OfferILL && s.illiad.URL != "" {
		rec.ILLiadLink = ILLiadLink(s.illiad, set.Anchor)
	}
	return rec, nil
}

// enrich fills blank descriptive fields from the enrichment source. Lookup
// failures count as absence.
func (s *Service) enrich(ctx context.Context, b entity.BibRecord) entity.BibRecord {
	if s.enricher == nil || (b.Title != "" && b.Author != "" && b.Publisher != "" && b.PubYear != "") {
		return b
	}
	for _, kind := range []entity.Kind{entity.KindISBN, entity.KindOCLC} {
		for _, num := range b.Numbers(kind) {
			found, err := s.enricher.Lookup(ctx, num, kind)
			if err != nil {
				log.Debug().Err(err).Str("number", num).Msg("enrichment lookup failed")
				continue
			}
			if found == nil {
				continue
			}
			b.Title = orElse(b.Title, found.Title)
			b.Author = orElse(b.Author, found.Author)
			b.Publisher = orElse(b.Publisher, found.Publisher)
			b.PubPlace = orElse(b.PubPlace, found.PubPlace)
			b.PubYear = orElse(b.PubYear, found.PubYear)
			return b
		}
	}
	return b
}

func orElse(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
