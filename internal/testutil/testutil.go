package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bibresolver/db"
	"bibresolver/internal/config"
	"bibresolver/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Fixture catalog ids.
const (
	BibMoviegoerGW   = "100"
	BibMoviegoerGT   = "200"
	BibMoviegoerAU   = "300"
	BibNatureGW      = "500"
	BibNatureAU      = "501"
	BibMoviegoerGM   = "600"
	BibSuppressedGW  = "700"
	BibStandaloneWR  = "800"
	MoviegoerISBN    = "0-395-08031-1"
	MoviegoerOCLC    = "34473395"
	NatureISSN       = "0028-0836"
	StandaloneISBN   = "9781234567897"
	MissingOCLC      = "99999999"
	GelmanStacksMfhd = "1001"
)

const fixtureSQL = `
INSERT INTO library (library_id, library_code, library_name) VALUES
    (1, 'GW', 'George Washington University'),
    (2, 'GT', 'Georgetown University'),
    (3, 'WR', 'WRLC Shared Collections'),
    (4, 'GM', 'George Mason University'),
    (5, 'AU', 'American University');

INSERT INTO bib_master (bib_id, library_id, suppress_in_opac) VALUES
    (100, 1, 'N'), (200, 2, 'N'), (300, 5, 'N'), (500, 1, 'N'),
    (501, 5, 'N'), (600, 4, 'N'), (700, 1, 'Y'), (800, 3, 'N');

INSERT INTO bib_text (bib_id, title, author, publisher, pub_place, publisher_date, bib_format, language) VALUES
    (100, 'The moviegoer', 'Percy, Walker, 1916-1990.', 'Knopf', 'New York', '1961', 'am', 'eng'),
    (200, 'The moviegoer', 'Percy, Walker.', 'Knopf', 'New York', '1961', 'am', 'eng'),
    (300, 'The moviegoer', 'Percy, Walker.', 'Knopf', 'New York', '1961', 'am', 'eng'),
    (500, 'Nature', NULL, 'Macmillan Journals', 'London', '1869-', 'as', 'eng'),
    (501, 'Nature', NULL, 'Macmillan Journals', 'London', '1869-', 'as', 'eng'),
    (600, 'The moviegoer', 'Percy, Walker.', 'Knopf', 'New York', '1961', 'am', 'eng'),
    (700, 'The moviegoer', 'Percy, Walker.', 'Knopf', 'New York', '1961', 'am', 'eng'),
    (800, 'A standalone monograph', NULL, NULL, NULL, '2001', 'am', 'eng');

INSERT INTO bib_index (bib_id, index_code, normal_heading, display_heading) VALUES
    (100, '020A', '0395080311', '0-395-08031-1 (pbk.)'),
    (100, '0350', '34473395', '(OCoLC)34473395'),
    (200, '020A', '0395080311', '0395080311'),
    (300, '020Z', '0395080311', '0395080311 (invalid)'),
    (500, '022A', '0028 0836', '0028-0836'),
    (500, '022Z', '0028 08', '0028-08'),
    (501, '022A', '0028 0836', '0028-0836'),
    (600, '020A', '0395080311', '0395080311'),
    (700, '020A', '0395080311', '0395080311'),
    (800, '020A', '9781234567897', '9781234567897'),
    (800, '035A', '55555', '(DLC)55555');

INSERT INTO location (location_id, library_id, location_code, location_display_name) VALUES
    (11, 1, 'gstk', 'GW: Gelman Stacks'),
    (12, 1, 'gref', 'GW: Gelman Reference'),
    (13, 1, 'gonl', 'GW: Online'),
    (14, 1, 'gper', 'GW: Gelman Periodicals'),
    (31, 5, 'bstk', 'AU: Bender Stacks'),
    (32, 5, 'bres', 'AU: Bender Reserve'),
    (33, 3, 'wscf', 'WRLC Shared Collections Facility');

INSERT INTO mfhd_master (mfhd_id, location_id, display_call_no, suppress_in_opac) VALUES
    (1001, 11, 'PS3566.E6912 M6 1961', 'N'),
    (1002, 12, 'PS3566.E6912 M6 1961 REF', 'N'),
    (1003, 13, NULL, 'N'),
    (1004, 11, 'PS3566.E6912 M6 1961 c.9', 'Y'),
    (3001, 31, 'PS3566 .E6912 M6', 'N'),
    (5001, 14, 'Q1 .N2', 'N');

INSERT INTO bib_mfhd (bib_id, mfhd_id) VALUES
    (100, 1001), (100, 1002), (100, 1003), (100, 1004), (300, 3001), (500, 5001);

INSERT INTO mfhd_link (mfhd_id, seq, field) VALUES
    (1003, 1, '856 40 $u http://hdl.example.org/moviegoer $z Full text available'),
    (1003, 2, '856 42 $3 Publisher description');

INSERT INTO item (item_id, perm_location, temp_location) VALUES
    (10011, 11, NULL),
    (10012, 11, NULL),
    (10021, 12, NULL),
    (30011, 31, NULL),
    (30012, 32, 33);

INSERT INTO mfhd_item (mfhd_id, item_id, item_enum) VALUES
    (1001, 10011, 'c.1'),
    (1001, 10012, 'c.2'),
    (1002, 10021, NULL),
    (3001, 30011, NULL),
    (3001, 30012, NULL);

INSERT INTO item_status_type (item_status_type, item_status_desc) VALUES
    (1, 'Not Charged'), (2, 'Charged'), (12, 'Missing');

INSERT INTO item_status (item_id, item_status, item_status_date) VALUES
    (10011, 2, '2013-01-01 10:00:00'),
    (10011, 1, '2013-06-01 10:00:00'),
    (10012, 12, '2012-03-04 08:00:00'),
    (10021, 1, '2011-01-01 00:00:00'),
    (30011, 2, '2014-02-02 00:00:00'),
    (30012, 1, NULL);
`

// MigrateSQLite applies the embedded catalog migrations to a sqlite database.
func MigrateSQLite(dbx *sqlx.DB) error {
	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(dbx.DB, db.MigrationsDir)
}

// NewCatalogDB opens a migrated, seeded sqlite catalog in a temp dir.
func NewCatalogDB(t testing.TB) *sqlx.DB {
	t.Helper()
	dbx, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })

	if err := MigrateSQLite(dbx); err != nil {
		t.Fatalf("migrate catalog: %v", err)
	}
	if _, err := dbx.Exec(fixtureSQL); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return dbx
}

// NewCatalogGateway returns a gateway over the seeded fixture catalog.
func NewCatalogGateway(t testing.TB) *store.SQLXGateway {
	t.Helper()
	return store.NewSQLXGateway(NewCatalogDB(t), store.DialectSQLite, 5*time.Second)
}

// TestConfig mirrors the consortium setup the fixture catalog assumes.
func TestConfig() config.Config {
	return config.Config{
		HoldingsConcurrency: 4,
		Libraries: config.Libraries{
			Preferred: []string{"GW"},
			Shared:    []string{"WR"},
		},
		Eligibility: config.Eligibility{
			IneligibleLibraries:     []string{"HS"},
			ForceEligibleLocations:  []string{"Shared Stacks"},
			IneligiblePermLocations: []string{"Reference", "Reserve", "Periodicals"},
			IneligibleTempLocations: []string{"Course Reserve"},
			IneligibleStatuses:      []string{"Charged", "Missing", "Lost"},
		},
		Z3950: config.Z3950{
			Targets: map[string]config.Z3950Target{
				"GM": {Address: "z.gmu.example", Port: 210, Database: "VOYAGER", Syntax: "OPAC", CatalogURL: "https://catalog.gmu.example/{bibid}"},
				"GT": {Address: "z.gt.example", Port: 210, Database: "INNOPAC", Syntax: "OPAC", CatalogURL: "https://catalog.gt.example/record=b{bibid}"},
			},
			Timeout: 2 * time.Second,
			RPS:     100,
		},
		ILLiad: config.ILLiad{
			URL: "https://illiad.example.org/illiad.dll/OpenURL",
			SID: "bibresolver",
		},
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
