package bib_test

import (
	"context"
	"errors"
	"testing"

	"bibresolver/internal/bib"
	"bibresolver/internal/catalog"
	"bibresolver/internal/catalog/mocks"
	"bibresolver/internal/entity"
	"bibresolver/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberKeys(set entity.RelatedBibSet) []string {
	var out []string
	for _, m := range set.Members {
		out = append(out, m.LibraryCode+":"+m.BibID)
	}
	return out
}

func TestStandardNumbers(t *testing.T) {
	nums := bib.StandardNumbers([]catalog.IndexEntry{
		{Code: "020A", Display: "0-395-08031-1 (pbk.)"},
		{Code: "020Z", Display: "0395080311"},
		{Code: "020A", Display: "12345"},
		{Code: "022A", Display: "0028-0836"},
		{Code: "022Z", Display: "0028-08"},
		{Code: "0350", Display: "(OCoLC)34473395"},
		{Code: "035A", Display: "(DLC)55555"},
		{Code: "245A", Display: "The moviegoer"},
	})

	assert.Equal(t, []entity.StandardNumber{
		{Value: "0-395-08031-1 (pbk.)", Kind: entity.KindISBN, Normalized: "0395080311"},
		{Value: "0028-0836", Kind: entity.KindISSN, Normalized: "0028 0836"},
		{Value: "(OCoLC)34473395", Kind: entity.KindOCLC, Normalized: "34473395"},
	}, nums)
}

func TestExpander_Fixture(t *testing.T) {
	repo := catalog.NewRepo(testutil.NewCatalogGateway(t))
	expander := bib.NewExpander(repo, testutil.TestConfig().Libraries)
	ctx := context.Background()

	t.Run("shared isbn orders GW first", func(t *testing.T) {
		set, err := expander.Expand(ctx, testutil.BibMoviegoerGW)
		require.NoError(t, err)
		assert.Equal(t, "The moviegoer", set.Anchor.Title)
		assert.Equal(t, []string{"GW:100", "GT:200", "AU:300", "GM:600"}, memberKeys(set))
		assert.Equal(t, []string{"34473395"}, set.Anchor.Numbers(entity.KindOCLC))

		au := set.Members[2]
		assert.Equal(t, "The moviegoer", au.Title)
		assert.Equal(t, "am", au.FormatCode)
		assert.Equal(t, "American University", au.LibraryName)
		assert.Equal(t, []string{"0395080311"}, au.Numbers(entity.KindISBN))
	})

	t.Run("non preferred anchor still lists GW first", func(t *testing.T) {
		set, err := expander.Expand(ctx, testutil.BibMoviegoerGT)
		require.NoError(t, err)
		assert.Equal(t, "GT", set.Anchor.LibraryCode)
		assert.Equal(t, []string{"GW:100", "GT:200", "AU:300", "GM:600"}, memberKeys(set))
		assert.Equal(t, "Percy, Walker.", set.Members[1].Author)
	})

	t.Run("invalid issn dropped", func(t *testing.T) {
		set, err := expander.Expand(ctx, testutil.BibNatureGW)
		require.NoError(t, err)
		assert.Equal(t, []string{"0028 0836"}, set.Anchor.Numbers(entity.KindISSN))
		assert.Equal(t, []string{"GW:500", "AU:501"}, memberKeys(set))
	})

	t.Run("unmarked oclc ignored", func(t *testing.T) {
		set, err := expander.Expand(ctx, testutil.BibStandaloneWR)
		require.NoError(t, err)
		assert.Empty(t, set.Anchor.Numbers(entity.KindOCLC))
		assert.Equal(t, []string{"WR:800"}, memberKeys(set))
	})

	t.Run("missing anchor", func(t *testing.T) {
		_, err := expander.Expand(ctx, "999")
		assert.True(t, errors.Is(err, entity.ErrNotFound))
	})
}

func TestExpander_Mock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockRepository(ctrl)
	expander := bib.NewExpander(repo, testutil.TestConfig().Libraries)
	ctx := context.Background()

	anchor := entity.BibRecord{BibID: "200", LibraryCode: "GT", Title: "The moviegoer"}

	t.Run("kind failure absorbed", func(t *testing.T) {
		repo.EXPECT().Bib(ctx, "200").Return(anchor, nil)
		repo.EXPECT().IndexEntries(ctx, "200").Return([]catalog.IndexEntry{
			{Code: "020A", Display: "0-395-08031-1"},
			{Code: "035A", Display: "(OCoLC)34473395"},
		}, nil)
		repo.EXPECT().RelatedBibs(gomock.Any(), entity.KindISBN, []string{"0395080311"}).Return(nil, entity.ErrUpstreamUnavailable)
		repo.EXPECT().RelatedBibs(gomock.Any(), entity.KindOCLC, []string{"34473395"}).Return([]catalog.BibRef{
			{BibID: "200", LibraryCode: "GT"},
			{BibID: "100", LibraryCode: "GW"},
			{BibID: "900", LibraryCode: "WR", LibraryName: "WRLC Shared Collections"},
		}, nil)
		repo.EXPECT().Bib(gomock.Any(), "100").Return(entity.BibRecord{BibID: "100", LibraryCode: "GW", Title: "The moviegoer", FormatCode: "am"}, nil)
		repo.EXPECT().IndexEntries(gomock.Any(), "100").Return([]catalog.IndexEntry{{Code: "0350", Display: "(OCoLC)34473395"}}, nil)
		repo.EXPECT().Bib(gomock.Any(), "900").Return(entity.BibRecord{}, entity.ErrUpstreamUnavailable)

		set, err := expander.Expand(ctx, "200")
		require.NoError(t, err)
		assert.Equal(t, []string{"GW:100", "WR:900", "GT:200"}, memberKeys(set))
		assert.Equal(t, "The moviegoer", set.Members[2].Title)

		gw := set.Members[0]
		assert.Equal(t, "The moviegoer", gw.Title)
		assert.Equal(t, []string{"34473395"}, gw.Numbers(entity.KindOCLC))

		wr := set.Members[1]
		assert.Empty(t, wr.Title)
		assert.Equal(t, "WRLC Shared Collections", wr.LibraryName)
	})

	t.Run("no numbers runs no query", func(t *testing.T) {
		repo.EXPECT().Bib(ctx, "200").Return(anchor, nil)
		repo.EXPECT().IndexEntries(ctx, "200").Return([]catalog.IndexEntry{
			{Code: "022A", Display: "not an issn"},
		}, nil)

		set, err := expander.Expand(ctx, "200")
		require.NoError(t, err)
		assert.Equal(t, []string{"GT:200"}, memberKeys(set))
	})

	t.Run("same bib across kinds kept once", func(t *testing.T) {
		repo.EXPECT().Bib(ctx, "200").Return(anchor, nil)
		repo.EXPECT().IndexEntries(ctx, "200").Return([]catalog.IndexEntry{
			{Code: "020A", Display: "0395080311"},
			{Code: "022A", Display: "1234-5679"},
		}, nil)
		repo.EXPECT().RelatedBibs(gomock.Any(), entity.KindISBN, gomock.Any()).Return([]catalog.BibRef{
			{BibID: "300", LibraryCode: "AU"},
			{BibID: "200", LibraryCode: "GT"},
		}, nil)
		repo.EXPECT().RelatedBibs(gomock.Any(), entity.KindISSN, []string{"1234 5679"}).Return([]catalog.BibRef{
			{BibID: "200", LibraryCode: "GT"},
			{BibID: "300", LibraryCode: "AU"},
			{BibID: "600", LibraryCode: "GM"},
		}, nil)
		for _, id := range []string{"300", "600"} {
			repo.EXPECT().Bib(gomock.Any(), id).Return(entity.BibRecord{}, entity.ErrNotFound)
		}

		set, err := expander.Expand(ctx, "200")
		require.NoError(t, err)
		assert.Equal(t, []string{"AU:300", "GT:200", "GM:600"}, memberKeys(set))
	})
}
