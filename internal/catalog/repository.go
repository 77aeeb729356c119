package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bibresolver/internal/entity"
	"bibresolver/internal/store"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Repository is the set of catalog reads used by resolution.
type Repository interface {
	BibsByNumber(ctx context.Context, kind entity.Kind, normalized string) ([]BibRef, error)
	Bib(ctx context.Context, bibID string) (entity.BibRecord, error)
	IndexEntries(ctx context.Context, bibID string) ([]IndexEntry, error)
	RelatedBibs(ctx context.Context, kind entity.Kind, normalized []string) ([]BibRef, error)
	Holdings(ctx context.Context, bibID string) ([]HoldingRow, error)
	Items(ctx context.Context, mfhdIDs []string) ([]ItemRow, error)
	Links(ctx context.Context, mfhdIDs []string) ([]LinkRow, error)
}

var errBuildQuery = errors.New("build catalog query")

// Repo implements Repository on top of a store.Gateway.
type Repo struct {
	gw store.Gateway
}

func NewRepo(gw store.Gateway) *Repo {
	return &Repo{gw: gw}
}

func (r *Repo) dialect() goqu.DialectWrapper {
	return goqu.Dialect(r.gw.Dialect())
}

func (r *Repo) run(ctx context.Context, ds *goqu.SelectDataset) ([]store.Row, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.Join(errBuildQuery, err)
	}
	return r.gw.Execute(ctx, query, args...)
}

// ParseID validates a numeric catalog id.
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: bad catalog id %q", entity.ErrInvalidArgument, id)
	}
	return n, nil
}

func parseIDs(ids []string) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := ParseID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *Repo) bibRefs(ctx context.Context, ds *goqu.SelectDataset) ([]BibRef, error) {
	rows, err := r.run(ctx, ds)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rows))
	var out []BibRef
	for _, row := range rows {
		ref := BibRef{
			BibID:       row.String("bib_id"),
			LibraryCode: row.String("library_code"),
			LibraryName: row.String("library_name"),
		}
		key := ref.BibID + "/" + ref.LibraryCode
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ref)
	}
	return out, nil
}

func (r *Repo) indexed() *goqu.SelectDataset {
	return r.dialect().
		From(goqu.T("bib_index").As("bi")).
		Join(goqu.T("bib_master").As("bm"), goqu.On(goqu.I("bi.bib_id").Eq(goqu.I("bm.bib_id")))).
		Join(goqu.T("library").As("lib"), goqu.On(goqu.I("bm.library_id").Eq(goqu.I("lib.library_id")))).
		Select(
			goqu.I("bi.bib_id").As("bib_id"),
			goqu.I("lib.library_code").As("library_code"),
			goqu.I("lib.library_name").As("library_name"),
		).
		Order(goqu.I("bi.bib_id").Asc())
}

// BibsByNumber lists every (bib, library) whose index of the given kind
// holds normalized, in catalog order.
func (r *Repo) BibsByNumber(ctx context.Context, kind entity.Kind, normalized string) ([]BibRef, error) {
	ds := r.indexed().Where(
		goqu.I("bi.index_code").In(IndexCodes(kind)),
		goqu.I("bi.normal_heading").Eq(normalized),
	)
	return r.bibRefs(ctx, ds)
}

// RelatedBibs lists unsuppressed bibs sharing any of the normalized values
// within kind's index codes. An empty value set runs no query.
func (r *Repo) RelatedBibs(ctx context.Context, kind entity.Kind, normalized []string) ([]BibRef, error) {
	if len(normalized) == 0 {
		return nil, nil
	}
	ds := r.indexed().Where(
		goqu.I("bi.index_code").In(IndexCodes(kind)),
		goqu.I("bi.normal_heading").In(normalized),
		goqu.I("bm.suppress_in_opac").Neq("Y"),
	)
	return r.bibRefs(ctx, ds)
}

func (r *Repo) Bib(ctx context.Context, bibID string) (entity.BibRecord, error) {
	id, err := ParseID(bibID)
	if err != nil {
		return entity.BibRecord{}, err
	}
	ds := r.dialect().
		From(goqu.T("bib_master").As("bm")).
		Join(goqu.T("library").As("lib"), goqu.On(goqu.I("bm.library_id").Eq(goqu.I("lib.library_id")))).
		LeftJoin(goqu.T("bib_text").As("bt"), goqu.On(goqu.I("bm.bib_id").Eq(goqu.I("bt.bib_id")))).
		Select(
			goqu.I("bm.bib_id").As("bib_id"),
			goqu.I("lib.library_code").As("library_code"),
			goqu.I("lib.library_name").As("library_name"),
			goqu.I("bt.title").As("title"),
			goqu.I("bt.author").As("author"),
			goqu.I("bt.publisher").As("publisher"),
			goqu.I("bt.pub_place").As("pub_place"),
			goqu.I("bt.publisher_date").As("publisher_date"),
			goqu.I("bt.bib_format").As("bib_format"),
			goqu.I("bt.language").As("language"),
			goqu.I("bt.marc_record").As("marc_record"),
		).
		Where(goqu.I("bm.bib_id").Eq(id))

	rows, err := r.run(ctx, ds)
	if err != nil {
		return entity.BibRecord{}, err
	}
	if len(rows) == 0 {
		return entity.BibRecord{}, fmt.Errorf("%w: bib %s", entity.ErrNotFound, bibID)
	}
	row := rows[0]
	bib := entity.BibRecord{
		BibID:        row.String("bib_id"),
		LibraryCode:  row.String("library_code"),
		LibraryName:  row.String("library_name"),
		Title:        row.String("title"),
		Author:       row.String("author"),
		Publisher:    row.String("publisher"),
		PubPlace:     row.String("pub_place"),
		PubYear:      row.String("publisher_date"),
		FormatCode:   row.String("bib_format"),
		LanguageCode: row.String("language"),
	}
	if !row.IsNull("marc_record") {
		bib.MARC = []byte(row.String("marc_record"))
	}
	return bib, nil
}

// IndexEntries lists the standard-number headings attached to a bib.
func (r *Repo) IndexEntries(ctx context.Context, bibID string) ([]IndexEntry, error) {
	id, err := ParseID(bibID)
	if err != nil {
		return nil, err
	}
	var codes []string
	for _, kind := range entity.Kinds {
		codes = append(codes, IndexCodes(kind)...)
	}
	ds := r.dialect().
		From(goqu.T("bib_index").As("bi")).
		Select(
			goqu.I("bi.index_code").As("index_code"),
			goqu.I("bi.display_heading").As("display_heading"),
			goqu.I("bi.normal_heading").As("normal_heading"),
		).
		Where(goqu.I("bi.bib_id").Eq(id), goqu.I("bi.index_code").In(codes)).
		Order(goqu.I("bi.index_code").Asc(), goqu.I("bi.normal_heading").Asc())

	rows, err := r.run(ctx, ds)
	if err != nil {
		return nil, err
	}
	out := make([]IndexEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, IndexEntry{
			Code:    row.String("index_code"),
			Display: row.String("display_heading"),
			Normal:  row.String("normal_heading"),
		})
	}
	return out, nil
}

// Holdings lists the unsuppressed MFHDs of a bib ordered by library name.
func (r *Repo) Holdings(ctx context.Context, bibID string) ([]HoldingRow, error) {
	id, err := ParseID(bibID)
	if err != nil {
		return nil, err
	}
	ds := r.dialect().
		From(goqu.T("bib_mfhd").As("bmf")).
		Join(goqu.T("mfhd_master").As("mm"), goqu.On(goqu.I("bmf.mfhd_id").Eq(goqu.I("mm.mfhd_id")))).
		Join(goqu.T("location").As("loc"), goqu.On(goqu.I("mm.location_id").Eq(goqu.I("loc.location_id")))).
		Join(goqu.T("library").As("lib"), goqu.On(goqu.I("loc.library_id").Eq(goqu.I("lib.library_id")))).
		Select(
			goqu.I("bmf.bib_id").As("bib_id"),
			goqu.I("mm.mfhd_id").As("mfhd_id"),
			goqu.I("lib.library_code").As("library_code"),
			goqu.I("lib.library_name").As("library_name"),
			goqu.I("loc.location_id").As("location_id"),
			goqu.I("loc.location_display_name").As("location_display_name"),
			goqu.I("mm.display_call_no").As("display_call_no"),
		).
		Where(goqu.I("bmf.bib_id").Eq(id), goqu.I("mm.suppress_in_opac").Neq("Y")).
		Order(goqu.I("lib.library_name").Asc(), goqu.I("mm.mfhd_id").Asc())

	rows, err := r.run(ctx, ds)
	if err != nil {
		return nil, err
	}
	out := make([]HoldingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, HoldingRow{
			BibID:        row.String("bib_id"),
			MfhdID:       row.String("mfhd_id"),
			LibraryCode:  row.String("library_code"),
			LibraryName:  row.String("library_name"),
			LocationID:   row.String("location_id"),
			LocationName: row.String("location_display_name"),
			CallNumber:   row.String("display_call_no"),
		})
	}
	return out, nil
}

// Items lists raw item status rows for the given MFHDs. Items with more
// than one status row appear more than once.
func (r *Repo) Items(ctx context.Context, mfhdIDs []string) ([]ItemRow, error) {
	if len(mfhdIDs) == 0 {
		return nil, nil
	}
	ids, err := parseIDs(mfhdIDs)
	if err != nil {
		return nil, err
	}
	ds := r.dialect().
		From(goqu.T("mfhd_item").As("mi")).
		Join(goqu.T("item").As("i"), goqu.On(goqu.I("mi.item_id").Eq(goqu.I("i.item_id")))).
		Join(goqu.T("location").As("perm"), goqu.On(goqu.I("i.perm_location").Eq(goqu.I("perm.location_id")))).
		LeftJoin(goqu.T("location").As("temp"), goqu.On(goqu.I("i.temp_location").Eq(goqu.I("temp.location_id")))).
		LeftJoin(goqu.T("item_status").As("ist"), goqu.On(goqu.I("i.item_id").Eq(goqu.I("ist.item_id")))).
		LeftJoin(goqu.T("item_status_type").As("istt"), goqu.On(goqu.I("ist.item_status").Eq(goqu.I("istt.item_status_type")))).
		Select(
			goqu.I("mi.mfhd_id").As("mfhd_id"),
			goqu.I("i.item_id").As("item_id"),
			goqu.I("mi.item_enum").As("item_enum"),
			goqu.I("ist.item_status").As("item_status"),
			goqu.I("istt.item_status_desc").As("item_status_desc"),
			goqu.I("ist.item_status_date").As("item_status_date"),
			goqu.I("perm.location_display_name").As("perm_location"),
			goqu.I("temp.location_display_name").As("temp_location"),
		).
		Where(goqu.I("mi.mfhd_id").In(ids)).
		Order(goqu.I("mi.mfhd_id").Asc(), goqu.I("mi.item_id").Asc())

	rows, err := r.run(ctx, ds)
	if err != nil {
		return nil, err
	}
	out := make([]ItemRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ItemRow{
			MfhdID:            row.String("mfhd_id"),
			ItemID:            row.String("item_id"),
			Enumeration:       row.String("item_enum"),
			StatusCode:        row.String("item_status"),
			StatusDescription: row.String("item_status_desc"),
			StatusDate:        row.String("item_status_date"),
			PermLocation:      row.String("perm_location"),
			TempLocation:      row.String("temp_location"),
		})
	}
	return out, nil
}

// Links lists the 856 display fields stored for the given MFHDs.
func (r *Repo) Links(ctx context.Context, mfhdIDs []string) ([]LinkRow, error) {
	if len(mfhdIDs) == 0 {
		return nil, nil
	}
	ids, err := parseIDs(mfhdIDs)
	if err != nil {
		return nil, err
	}
	ds := r.dialect().
		From(goqu.T("mfhd_link").As("ml")).
		Select(goqu.I("ml.mfhd_id").As("mfhd_id"), goqu.I("ml.field").As("field")).
		Where(goqu.I("ml.mfhd_id").In(ids)).
		Order(goqu.I("ml.mfhd_id").Asc(), goqu.I("ml.seq").Asc())

	rows, err := r.run(ctx, ds)
	if err != nil {
		return nil, err
	}
	out := make([]LinkRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, LinkRow{MfhdID: row.String("mfhd_id"), Field: row.String("field")})
	}
	return out, nil
}
