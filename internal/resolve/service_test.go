package resolve_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"bibresolver/internal/bib"
	"bibresolver/internal/catalog"
	"bibresolver/internal/entity"
	"bibresolver/internal/holdings"
	"bibresolver/internal/resolve"
	"bibresolver/internal/testutil"
	"bibresolver/internal/z3950"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// affiliateStub answers GT searches with one charged copy and fails GM.
type affiliateStub struct{}

func (affiliateStub) Search(_ context.Context, target z3950.Target, q z3950.Query) ([]string, error) {
	if target.Database == "INNOPAC" {
		return []string{"localLocation: 'GT: Lauinger Stacks'\ncallNumber: 'PS3566 .E6912'\navailableNow: 'DUE 05-06-2014'"}, nil
	}
	return nil, errors.New("connection refused")
}

func newFixtureService(t *testing.T) *resolve.Service {
	t.Helper()
	cfg := testutil.TestConfig()
	repo := catalog.NewRepo(testutil.NewCatalogGateway(t))
	adapter := z3950.NewAdapter(cfg.Z3950, affiliateStub{}, nil)
	return resolve.NewService(
		bib.NewResolver(repo, cfg.Libraries),
		bib.NewExpander(repo, cfg.Libraries),
		holdings.NewAggregator(catalog.NewSource(repo), adapter, cfg),
		nil,
		cfg,
		nil,
	)
}

func mfhdIDs(rec entity.Record) []string {
	var out []string
	for _, h := range rec.Holdings {
		out = append(out, h.MfhdID)
	}
	return out
}

func TestService_ByNumber(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	t.Run("oclc end to end", func(t *testing.T) {
		rec, err := svc.ByNumber(ctx, testutil.MoviegoerOCLC, "oclc", resolve.Options{})
		require.NoError(t, err)
		assert.Equal(t, testutil.BibMoviegoerGW, rec.Bib.BibID)
		assert.Equal(t, []string{"100", "200", "300", "600"}, rec.RelatedBibIDs)
		assert.Equal(t, []string{"1001", "1002", "1003", "3001", "GT-200-1", "GM-600-1"}, mfhdIDs(rec))
		assert.Empty(t, rec.ILLiadLink)

		gt := rec.Holdings[4]
		assert.Equal(t, "Lauinger Stacks", gt.DisplayLocation)
		require.Len(t, gt.Items, 1)
		assert.Equal(t, "Charged", gt.Items[0].StatusDescription)
		assert.False(t, gt.Items[0].Eligible)

		gm := rec.Holdings[5]
		assert.True(t, gm.Fallback)
		assert.Equal(t, "https://catalog.gmu.example/600", gm.LocationName)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.ByNumber(ctx, testutil.MissingOCLC, "oclc", resolve.Options{})
		assert.True(t, errors.Is(err, entity.ErrNotFound))
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := svc.ByNumber(ctx, "123", "upc", resolve.Options{})
		assert.True(t, errors.Is(err, entity.ErrInvalidArgument))
	})
}

func TestService_ByBibID(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	t.Run("electronic first", func(t *testing.T) {
		rec, err := svc.ByBibID(ctx, testutil.BibMoviegoerGW, resolve.Options{ElectronicFirst: true})
		require.NoError(t, err)
		assert.Equal(t, "1003", rec.Holdings[0].MfhdID)
	})

	t.Run("no holdings offers ILL", func(t *testing.T) {
		rec, err := svc.ByBibID(ctx, testutil.BibStandaloneWR, resolve.Options{})
		require.NoError(t, err)
		assert.NotNil(t, rec.Holdings)
		assert.Empty(t, rec.Holdings)
		require.NotEmpty(t, rec.ILLiadLink)

		u, err := url.Parse(rec.ILLiadLink)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(rec.ILLiadLink, "https://illiad.example.org/illiad.dll/OpenURL?"))
		assert.Equal(t, "A standalone monograph", u.Query().Get("rft.btitle"))
		assert.Equal(t, "9781234567897", u.Query().Get("rft.isbn"))
	})

	t.Run("serial never offers ILL", func(t *testing.T) {
		rec, err := svc.ByBibID(ctx, testutil.BibNatureGW, resolve.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"500", "501"}, rec.RelatedBibIDs)
		assert.Equal(t, []string{"5001"}, mfhdIDs(rec))
		assert.False(t, rec.Holdings[0].Eligible)
		assert.Empty(t, rec.ILLiadLink)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := svc.ByBibID(ctx, "12abc", resolve.Options{})
		assert.True(t, errors.Is(err, entity.ErrInvalidArgument))
	})

	t.Run("missing bib", func(t *testing.T) {
		_, err := svc.ByBibID(ctx, "424242", resolve.Options{})
		assert.True(t, errors.Is(err, entity.ErrNotFound))
	})
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Lookup(ctx context.Context, num string, kind entity.Kind) (*entity.BibRecord, error) {
	args := m.Called(ctx, num, kind)
	rec, _ := args.Get(0).(*entity.BibRecord)
	return rec, args.Error(1)
}

type staticExpander struct {
	set entity.RelatedBibSet
	err error
}

func (s staticExpander) Expand(context.Context, string) (entity.RelatedBibSet, error) {
	return s.set, s.err
}

type staticAggregator struct {
	res holdings.Result
}

func (s staticAggregator) Aggregate(context.Context, entity.RelatedBibSet) (holdings.Result, error) {
	return s.res, nil
}

func TestService_Enrichment(t *testing.T) {
	anchor := entity.BibRecord{
		BibID:       "100",
		LibraryCode: "GW",
		Title:       "The moviegoer",
		StandardNumbers: []entity.StandardNumber{
			{Value: "0-395-08031-1", Kind: entity.KindISBN, Normalized: "0395080311"},
			{Value: "(OCoLC)34473395", Kind: entity.KindOCLC, Normalized: "34473395"},
		},
	}
	set := entity.RelatedBibSet{Anchor: anchor, Members: []entity.BibRecord{anchor}}

	enricher := &mockEnricher{}
	enricher.On("Lookup", mock.Anything, "0395080311", entity.KindISBN).Return(nil, errors.New("timeout"))
	enricher.On("Lookup", mock.Anything, "34473395", entity.KindOCLC).Return(&entity.BibRecord{
		Title:     "Moviegoer",
		Author:    "Walker Percy",
		Publisher: "Knopf",
		PubYear:   "1961",
	}, nil)

	svc := resolve.NewService(nil, staticExpander{set: set}, staticAggregator{}, enricher, testutil.TestConfig(), nil)
	rec, err := svc.ByBibID(context.Background(), "100", resolve.Options{})
	require.NoError(t, err)

	assert.Equal(t, "The moviegoer", rec.Bib.Title)
	assert.Equal(t, "Walker Percy", rec.Bib.Author)
	assert.Equal(t, "Knopf", rec.Bib.Publisher)
	assert.Equal(t, "1961", rec.Bib.PubYear)
	enricher.AssertExpectations(t)
}

func TestService_ExpandFailureSurfaced(t *testing.T) {
	svc := resolve.NewService(nil, staticExpander{err: entity.ErrUpstreamUnavailable}, staticAggregator{}, nil, testutil.TestConfig(), nil)

	_, err := svc.ByBibID(context.Background(), "100", resolve.Options{})
	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
}
