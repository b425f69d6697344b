package orion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Entities fetches every entity visible under the session's service
// and the given servicepath, partitioned by entity type. Order within
// each bucket matches the broker's response order. The result is a
// snapshot of a single listing response.
func (s *Session) Entities(ctx context.Context, servicePath string) (Catalog, error) {
	url := s.creds.CBDomain + "/v2/entities"
	headers := s.brokerHeaders(servicePath)

	resp, err := s.doBrokerRequest(ctx, http.MethodGet, url, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			URL:        url,
			Status:     resp.StatusCode,
			Meta:       headersMeta(headers),
			Correlator: resp.Header.Get(headerCorrelator),
		}
	}

	var items []Entity
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode entity listing: %w", err)
	}

	catalog := make(Catalog)
	for _, item := range items {
		catalog[item.Type] = append(catalog[item.Type], item)
	}

	log.Debug().
		Str("servicepath", servicePath).
		Int("entities", len(items)).
		Int("types", len(catalog)).
		Msg("fetched entity catalog")

	return catalog, nil
}
