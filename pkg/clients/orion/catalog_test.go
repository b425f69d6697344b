package orion

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntities_PartitionsByType(t *testing.T) {
	broker := newTestBroker(t)
	broker.entities = []map[string]any{
		{"id": "sl-001", "type": "Streetlight", "status": map[string]any{"value": "ok"}},
		{"id": "cab-001", "type": "StreetlightControlCabinet"},
		{"id": "sl-002", "type": "Streetlight"},
		{"id": "park-001", "type": "ParkingSpot"},
		{"id": "sl-003", "type": "Streetlight"},
	}
	session := broker.open(t)

	catalog, err := session.Entities(context.Background(), "/demo")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Streetlight", "StreetlightControlCabinet", "ParkingSpot"}, catalog.Types())
	assert.Equal(t, 5, catalog.Len())

	// Bucket order follows response order.
	streetlights := catalog["Streetlight"]
	require.Len(t, streetlights, 3)
	assert.Equal(t, "sl-001", streetlights[0].ID)
	assert.Equal(t, "sl-002", streetlights[1].ID)
	assert.Equal(t, "sl-003", streetlights[2].ID)

	require.Len(t, catalog["StreetlightControlCabinet"], 1)
	require.Len(t, catalog["ParkingSpot"], 1)
}

func TestEntities_AttributesOpaque(t *testing.T) {
	broker := newTestBroker(t)
	broker.entities = []map[string]any{
		{"id": "sl-001", "type": "Streetlight", "status": "ok", "powerState": "on"},
	}
	session := broker.open(t)

	catalog, err := session.Entities(context.Background(), "/demo")
	require.NoError(t, err)

	entity := catalog["Streetlight"][0]
	assert.Contains(t, entity.Attributes, "status")
	assert.Contains(t, entity.Attributes, "powerState")
	assert.NotContains(t, entity.Attributes, "id")
	assert.NotContains(t, entity.Attributes, "type")
}

func TestEntities_Empty(t *testing.T) {
	broker := newTestBroker(t)
	broker.entities = []map[string]any{}
	session := broker.open(t)

	catalog, err := session.Entities(context.Background(), "/demo")
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestEntities_ListRejected(t *testing.T) {
	statuses := []int{
		http.StatusUnauthorized,
		http.StatusNotFound,
		http.StatusServiceUnavailable,
	}

	for _, status := range statuses {
		broker := newTestBroker(t)
		broker.listStatus = status
		session := broker.open(t)

		catalog, err := session.Entities(context.Background(), "/demo")
		require.Error(t, err)
		require.Nil(t, catalog)

		fetchErr, ok := IsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, broker.server.URL+"/v2/entities", fetchErr.URL)
		assert.Equal(t, status, fetchErr.Status)
		assert.NotContains(t, fetchErr.Meta, "test-subject-token")
	}
}
