package orion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// ErrNotConverged reports that the purge loop hit its pass bound while
// passes were still deleting entities. This happens when something
// keeps creating matching entities while the purge runs.
var ErrNotConverged = errors.New("purge did not converge")

// PassFunc is called after each pass that deleted at least one entity.
type PassFunc func(pass, deleted int)

// PurgePass runs one fetch-filter-delete cycle: it takes a fresh
// catalog, keeps the buckets whose type is in targetTypes, and deletes
// every entity in those buckets one request at a time, in targetTypes
// order and bucket order within a type. The first rejected delete
// aborts the pass; entities already deleted stay deleted. Returns the
// number of entities deleted, including on error.
func (s *Session) PurgePass(ctx context.Context, servicePath string, targetTypes []string) (int, error) {
	catalog, err := s.Entities(ctx, servicePath)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, typeName := range targetTypes {
		for _, entity := range catalog[typeName] {
			if err := s.deleteEntity(ctx, servicePath, entity.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}

	return deleted, nil
}

// Purge drives passes until one deletes nothing and returns the total
// number of entities deleted. Each pass re-fetches the catalog, so the
// loop converges only while nothing re-creates matching entities
// concurrently; maxPasses bounds the loop against that race and a
// value <= 0 removes the bound. onPass may be nil.
func (s *Session) Purge(ctx context.Context, servicePath string, targetTypes []string, maxPasses int, onPass PassFunc) (int, error) {
	total := 0
	for pass := 1; maxPasses <= 0 || pass <= maxPasses; pass++ {
		deleted, err := s.PurgePass(ctx, servicePath, targetTypes)
		total += deleted
		if err != nil {
			return total, err
		}
		if deleted == 0 {
			return total, nil
		}
		log.Debug().Int("pass", pass).Int("deleted", deleted).Msg("purge pass complete")
		if onPass != nil {
			onPass(pass, deleted)
		}
	}
	return total, fmt.Errorf("%w after %d passes", ErrNotConverged, maxPasses)
}

// deleteEntity removes one entity by id. The broker answers 204 on
// success; anything else is a protocol failure.
func (s *Session) deleteEntity(ctx context.Context, servicePath, id string) error {
	deleteURL := s.creds.CBDomain + "/v2/entities/" + url.PathEscape(id)
	headers := s.brokerHeaders(servicePath)

	resp, err := s.doBrokerRequest(ctx, http.MethodDelete, deleteURL, headers)
	if err != nil {
		return fmt.Errorf("failed to delete entity %q: %w", id, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return &FetchError{
			URL:        deleteURL,
			Status:     resp.StatusCode,
			Meta:       headersMeta(headers),
			Correlator: resp.Header.Get(headerCorrelator),
		}
	}

	return nil
}
