package z3950

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"
	"bibresolver/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Result is one holdings snapshot from an affiliate. A Fallback result
// carries only the catalog lookup URL as its location.
type Result struct {
	BibID       string
	LibraryCode string
	Location    string
	CallNumber  string
	Note        string
	Items       []entity.Item
	Links       []entity.ElectronicLink
	Internet    bool
	Fallback    bool
}

// Adapter fetches affiliate holdings. It never fails: every problem turns
// into a fallback result.
type Adapter struct {
	targets   map[string]Target
	transport Transport
	timeout   time.Duration
	metrics   metrics.Recorder
}

func NewAdapter(cfg config.Z3950, transport Transport, rec metrics.Recorder) *Adapter {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Adapter{
		targets:   cfg.Targets,
		transport: transport,
		timeout:   cfg.Timeout,
		metrics:   rec,
	}
}

// Handles reports whether libraryCode is served by this adapter.
func (a *Adapter) Handles(libraryCode string) bool {
	_, ok := a.targets[libraryCode]
	return ok
}

// FetchHoldings searches the affiliate for bibID and parses every record
// returned into results, one per block.
func (a *Adapter) FetchHoldings(ctx context.Context, bibID, libraryCode string) []Result {
	target, ok := a.targets[libraryCode]
	if !ok {
		a.metrics.Affiliate(libraryCode, metrics.OutcomeFallback)
		return []Result{fallback(target, bibID, libraryCode)}
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	records, err := a.transport.Search(ctx, target, Query{Attribute: AttrBibID, Term: bibID})
	if err != nil {
		log.Warn().Err(err).Str("library", libraryCode).Str("bib_id", bibID).Msg("affiliate search failed")
		a.metrics.Affiliate(libraryCode, metrics.OutcomeError)
		return []Result{fallback(target, bibID, libraryCode)}
	}
	if len(records) == 0 {
		a.metrics.Affiliate(libraryCode, metrics.OutcomeEmpty)
		return []Result{fallback(target, bibID, libraryCode)}
	}

	var out []Result
	for _, rec := range records {
		for _, b := range Parse(rec) {
			out = append(out, toResult(b, bibID, libraryCode, len(out)+1))
		}
	}
	if len(out) == 0 {
		a.metrics.Affiliate(libraryCode, metrics.OutcomeFallback)
		return []Result{fallback(target, bibID, libraryCode)}
	}
	a.metrics.Affiliate(libraryCode, metrics.OutcomeOK)
	return out
}

// Holdings implements the holdings source contract. Physical results map
// one to one; internet results fold into a single electronic holding.
func (a *Adapter) Holdings(ctx context.Context, bib entity.BibRecord) ([]entity.Holding, error) {
	results := a.FetchHoldings(ctx, bib.BibID, bib.LibraryCode)

	var out []entity.Holding
	onlineAt := -1
	for i, r := range results {
		if r.Internet {
			if onlineAt < 0 {
				h := newHolding(r, fmt.Sprintf("%s-%s-online", r.LibraryCode, r.BibID))
				h.Electronic = true
				out = append(out, h)
				onlineAt = len(out) - 1
				continue
			}
			online := &out[onlineAt]
			online.Links = append(online.Links, r.Links...)
			for _, it := range r.Items {
				it.MfhdID = online.MfhdID
				online.Items = append(online.Items, it)
			}
			if r.Note != "" {
				online.Note = strings.TrimSpace(online.Note + " " + r.Note)
			}
			continue
		}
		out = append(out, newHolding(r, fmt.Sprintf("%s-%s-%d", r.LibraryCode, r.BibID, i+1)))
	}
	return out, nil
}

func newHolding(r Result, mfhdID string) entity.Holding {
	items := make([]entity.Item, len(r.Items))
	copy(items, r.Items)
	for i := range items {
		items[i].MfhdID = mfhdID
	}
	links := r.Links
	if links == nil {
		links = []entity.ElectronicLink{}
	}
	return entity.Holding{
		BibID:        r.BibID,
		MfhdID:       mfhdID,
		LibraryCode:  r.LibraryCode,
		LocationName: r.Location,
		CallNumber:   r.CallNumber,
		Note:         r.Note,
		Items:        items,
		Links:        links,
		Fallback:     r.Fallback,
		Source:       entity.SourceAffiliate,
	}
}

func toResult(b Block, bibID, libraryCode string, n int) Result {
	r := Result{
		BibID:       bibID,
		LibraryCode: libraryCode,
		Location:    b.Location,
		CallNumber:  b.CallNumber,
		Note:        b.Note,
		Items:       []entity.Item{},
		Links:       b.Links,
		Internet:    b.Internet,
	}
	if r.Links == nil {
		r.Links = []entity.ElectronicLink{}
	}
	for i, st := range b.Statuses {
		r.Items = append(r.Items, entity.Item{
			ItemID:            fmt.Sprintf("%s-%s-%d-%d", libraryCode, bibID, n, i+1),
			BibID:             bibID,
			LibraryCode:       libraryCode,
			CallNumber:        b.CallNumber,
			StatusCode:        st.Code,
			StatusDescription: st.Description,
			PermLocation:      b.Location,
		})
	}
	return r
}

func fallback(target Target, bibID, libraryCode string) Result {
	return Result{
		BibID:       bibID,
		LibraryCode: libraryCode,
		Location:    strings.ReplaceAll(target.CatalogURL, "{bibid}", bibID),
		Items:       []entity.Item{},
		Links:       []entity.ElectronicLink{},
		Fallback:    true,
	}
}
