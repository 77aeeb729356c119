package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"bibresolver/internal/app"
	"bibresolver/internal/config"
	"bibresolver/internal/store"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

func main() {
	count := flag.Int("count", 1000, "number of works to generate")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	app.SetupLogger(cfg.Log)

	db, dialect, closeDB, err := open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", app.RedactDSN(cfg.DatabaseDSN)).Msg("failed to connect to database")
	}
	defer closeDB()

	log.Info().Int("works", *count).Msg("generating demo catalog")
	data := generate(*count, rand.New(rand.NewSource(*seed)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := load(ctx, db, dialect, data); err != nil {
		log.Fatal().Err(err).Msg("failed to load demo catalog")
	}

	var total int
	if err := db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bib_master"); err == nil {
		log.Info().Int("bibs", total).Msg("demo catalog loaded")
	}
}

func open(cfg config.Config) (*sqlx.DB, string, func(), error) {
	if cfg.CatalogDriver == "sqlite" {
		db, err := sqlx.Open("sqlite", cfg.DatabaseDSN)
		if err != nil {
			return nil, "", nil, err
		}
		return db, store.DialectSQLite, func() { db.Close() }, nil
	}
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return nil, "", nil, err
	}
	db := sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
	return db, store.DialectPostgres, func() {
		db.Close()
		pool.Close()
	}, nil
}

type library struct {
	id   int
	code string
	name string
}

var libraries = []library{
	{1, "GW", "George Washington University"},
	{2, "GT", "Georgetown University"},
	{3, "WR", "WRLC Shared Collections"},
	{4, "GM", "George Mason University"},
	{5, "AU", "American University"},
	{6, "CU", "Catholic University"},
}

var statuses = []goqu.Record{
	{"item_status_type": 1, "item_status_desc": "Not Charged"},
	{"item_status_type": 2, "item_status_desc": "Charged"},
	{"item_status_type": 12, "item_status_desc": "Missing"},
}

// dataset holds rows per table in insert order.
type dataset struct {
	tables []string
	rows   map[string][]interface{}
}

func (d *dataset) add(table string, rec goqu.Record) {
	if d.rows == nil {
		d.rows = make(map[string][]interface{})
	}
	if _, ok := d.rows[table]; !ok {
		d.tables = append(d.tables, table)
	}
	d.rows[table] = append(d.rows[table], rec)
}

// generate builds n works. Each work is cataloged by one to three
// libraries that share its ISBN; every copy has one holding with up to
// two items.
func generate(n int, rng *rand.Rand) *dataset {
	d := &dataset{}
	for _, lib := range libraries {
		d.add("library", goqu.Record{"library_id": lib.id, "library_code": lib.code, "library_name": lib.name})
	}
	for _, lib := range libraries {
		d.add("location", goqu.Record{"location_id": lib.id*10 + 1, "library_id": lib.id, "location_code": "stk", "location_display_name": lib.code + ": Stacks"})
		d.add("location", goqu.Record{"location_id": lib.id*10 + 2, "library_id": lib.id, "location_code": "ref", "location_display_name": lib.code + ": Reference"})
	}
	for _, st := range statuses {
		d.add("item_status_type", st)
	}

	bibID, mfhdID, itemID := 1, 1, 1
	base := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	for w := 0; w < n; w++ {
		isbn := fmt.Sprintf("978%010d", w+1)
		title := fmt.Sprintf("%s %s", words[rng.Intn(len(words))], words[rng.Intn(len(words))])
		year := 1950 + rng.Intn(75)

		for _, lib := range pick(rng, 1+rng.Intn(3)) {
			d.add("bib_master", goqu.Record{"bib_id": bibID, "library_id": lib.id, "suppress_in_opac": "N"})
			d.add("bib_text", goqu.Record{
				"bib_id": bibID, "title": title, "author": fmt.Sprintf("Author %d", w+1),
				"publisher": "Demo Press", "pub_place": "Washington", "publisher_date": fmt.Sprint(year),
				"bib_format": "am", "language": "eng",
			})
			d.add("bib_index", goqu.Record{"bib_id": bibID, "index_code": "020A", "normal_heading": isbn, "display_heading": isbn})

			loc := lib.id*10 + 1 + rng.Intn(2)
			d.add("mfhd_master", goqu.Record{"mfhd_id": mfhdID, "location_id": loc, "display_call_no": fmt.Sprintf("PS%d .D%d", 1000+w, year), "suppress_in_opac": "N"})
			d.add("bib_mfhd", goqu.Record{"bib_id": bibID, "mfhd_id": mfhdID})

			for c := 0; c < 1+rng.Intn(2); c++ {
				d.add("item", goqu.Record{"item_id": itemID, "perm_location": loc})
				d.add("mfhd_item", goqu.Record{"mfhd_id": mfhdID, "item_id": itemID, "item_enum": fmt.Sprintf("c.%d", c+1)})
				st := statuses[rng.Intn(len(statuses))]["item_status_type"]
				d.add("item_status", goqu.Record{
					"item_id": itemID, "item_status": st,
					"item_status_date": base.Add(time.Duration(rng.Intn(5000)) * time.Hour),
				})
				itemID++
			}
			bibID++
			mfhdID++
		}
	}
	return d
}

func pick(rng *rand.Rand, n int) []library {
	perm := rng.Perm(len(libraries))
	out := make([]library, 0, n)
	for _, i := range perm[:n] {
		out = append(out, libraries[i])
	}
	return out
}

const batchSize = 500

func load(ctx context.Context, db *sqlx.DB, dialect string, d *dataset) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g := goqu.Dialect(dialect)
	for _, table := range d.tables {
		rows := d.rows[table]
		for start := 0; start < len(rows); start += batchSize {
			end := min(start+batchSize, len(rows))
			query, args, err := g.Insert(table).Rows(rows[start:end]...).Prepared(true).ToSQL()
			if err != nil {
				return fmt.Errorf("build %s insert: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert %s: %w", table, err)
			}
		}
		log.Debug().Str("table", table).Int("rows", len(rows)).Msg("loaded")
	}
	return tx.Commit()
}

var words = []string{
	"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
	"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
	"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
	"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
}
