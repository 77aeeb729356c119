// Package bib turns standard numbers into catalog bib ids and expands a bib
// into the set of member records describing the same work.
package bib

import (
	"context"
	"fmt"

	"bibresolver/internal/catalog"
	"bibresolver/internal/config"
	"bibresolver/internal/entity"
	"bibresolver/internal/stdnum"
)

// Resolver maps a standard number to a canonical bib id.
type Resolver struct {
	repo      catalog.Repository
	libraries config.Libraries
}

func NewResolver(repo catalog.Repository, libraries config.Libraries) *Resolver {
	return &Resolver{repo: repo, libraries: libraries}
}

// Resolve returns the bib id of the first preferred-library record matching
// num, or the first match overall.
func (r *Resolver) Resolve(ctx context.Context, num, numType string) (string, error) {
	kind, err := stdnum.ParseKind(numType)
	if err != nil {
		return "", err
	}
	norm, err := stdnum.Normalize(num, kind)
	if err != nil {
		return "", err
	}

	refs, err := r.repo.BibsByNumber(ctx, kind, norm)
	if err != nil {
		return "", err
	}
	if len(refs) == 0 {
		return "", fmt.Errorf("%w: no bib for %s %s", entity.ErrNotFound, kind, norm)
	}
	for _, ref := range refs {
		if r.libraries.IsPreferred(ref.LibraryCode) {
			return ref.BibID, nil
		}
	}
	return refs[0].BibID, nil
}
