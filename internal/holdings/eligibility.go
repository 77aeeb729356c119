package holdings

import (
	"strings"

	"bibresolver/internal/config"
	"bibresolver/internal/entity"
)

const (
	lawLibraryOwner = "GM"
	lawLibrary      = "Law Library"
	consortiumMark  = "WRLC"
)

// Eligibility decides whether items and holdings may be lent through ILL.
type Eligibility struct {
	cfg config.Eligibility
}

func NewEligibility(cfg config.Eligibility) *Eligibility {
	return &Eligibility{cfg: cfg}
}

// Item runs the rule chain for a single item.
func (e *Eligibility) Item(it entity.Item) bool {
	if ok, decided := e.locationRules(it.LibraryCode, it.PermLocation, it.TempLocation); decided {
		return ok
	}
	if hasPrefixAny(it.StatusDescription, e.cfg.IneligibleStatuses) {
		return false
	}
	return true
}

// Holding runs the rule chain for a holding. A physical holding that
// carries an online link is not lendable, and neither is a fallback
// holding, which only points at an unreachable affiliate catalog.
func (e *Eligibility) Holding(h entity.Holding) bool {
	if h.Fallback {
		return false
	}
	if ok, decided := e.locationRules(h.LibraryCode, h.LocationName, ""); decided {
		return ok
	}
	if !h.Electronic && h.HasURL() {
		return false
	}
	return true
}

func (e *Eligibility) locationRules(library, perm, temp string) (eligible, decided bool) {
	switch {
	case library == lawLibraryOwner && (strings.Contains(perm, lawLibrary) || strings.Contains(temp, lawLibrary)):
		return false, true
	case contains(e.cfg.IneligibleLibraries, library):
		return false, true
	case containsAny(perm, e.cfg.ForceEligibleLocations) || containsAny(temp, e.cfg.ForceEligibleLocations):
		return true, true
	case strings.Contains(perm, consortiumMark) || strings.Contains(temp, consortiumMark):
		return true, true
	case containsAny(perm, e.cfg.IneligiblePermLocations):
		return false, true
	case temp != "" && containsAny(temp, e.cfg.IneligibleTempLocations):
		return false, true
	}
	return false, false
}

func containsAny(s string, subs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasPrefixAny(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
