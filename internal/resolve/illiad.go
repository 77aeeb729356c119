package resolve

import (
	"net/url"
	"strings"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"
)

// ILLiadLink builds an OpenURL 1.0 KEV request for the interlibrary loan
// system describing b.
func ILLiadLink(cfg config.ILLiad, b entity.BibRecord) string {
	v := url.Values{}
	v.Set("url_ver", "Z39.88-2004")
	v.Set("rft_val_fmt", "info:ofi/fmt:kev:mtx:book")
	v.Set("rft.genre", "book")
	set := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			v.Set(key, val)
		}
	}
	set("rft.btitle", b.Title)
	set("rft.au", b.Author)
	set("rft.pub", b.Publisher)
	set("rft.place", b.PubPlace)
	set("rft.date", b.PubYear)
	if isbns := b.Numbers(entity.KindISBN); len(isbns) > 0 {
		v.Set("rft.isbn", isbns[0])
	}
	if issns := b.Numbers(entity.KindISSN); len(issns) > 0 {
		v.Set("rft.issn", strings.Replace(issns[0], " ", "-", 1))
	}
	if oclcs := b.Numbers(entity.KindOCLC); len(oclcs) > 0 {
		v.Set("rfe_dat", oclcs[0])
	}
	set("sid", cfg.SID)

	sep := "?"
	if strings.Contains(cfg.URL, "?") {
		sep = "&"
	}
	return cfg.URL + sep + v.Encode()
}
