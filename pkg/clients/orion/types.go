package orion

import (
	"encoding/json"
	"fmt"
)

// Credentials holds everything needed to open a broker session: the
// identity manager and context broker base URLs, the FIWARE service
// (tenant) and the user to authenticate as. Values are fixed for the
// lifetime of the session.
type Credentials struct {
	AuthDomain string
	CBDomain   string
	Service    string
	Username   string
	Password   string
}

// authRequest builds the Keystone password-grant body the IdM expects:
// the method list plus the user nested under its service domain.
func (c Credentials) authRequest() map[string]any {
	return map[string]any{
		"auth": map[string]any{
			"identity": map[string]any{
				"methods": []string{"password"},
				"password": map[string]any{
					"user": map[string]any{
						"domain": map[string]any{
							"name": c.Service,
						},
						"name":     c.Username,
						"password": c.Password,
					},
				},
			},
		},
	}
}

// Entity is a single NGSI-v2 entity. Attributes beyond id and type are
// carried opaquely and never interpreted by this package.
type Entity struct {
	ID         string
	Type       string
	Attributes map[string]json.RawMessage
}

// UnmarshalJSON splits the broker's representation into the id, the
// type and the remaining attributes left as raw JSON.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	idRaw, ok := raw["id"]
	if !ok {
		return fmt.Errorf("entity has no id field")
	}
	if err := json.Unmarshal(idRaw, &e.ID); err != nil {
		return fmt.Errorf("failed to unmarshal entity id: %w", err)
	}

	typeRaw, ok := raw["type"]
	if !ok {
		return fmt.Errorf("entity %q has no type field", e.ID)
	}
	if err := json.Unmarshal(typeRaw, &e.Type); err != nil {
		return fmt.Errorf("failed to unmarshal entity type: %w", err)
	}

	delete(raw, "id")
	delete(raw, "type")
	e.Attributes = raw

	return nil
}

// Catalog maps an entity type name to the entities of that type, in
// the order the broker listed them. It is a point-in-time snapshot of
// one listing response: every fetched entity lands in exactly one
// bucket, and nothing keeps it consistent with the broker afterwards.
type Catalog map[string][]Entity

// Types returns the distinct type names present in the catalog.
func (c Catalog) Types() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return names
}

// Len returns the total number of entities across all buckets.
func (c Catalog) Len() int {
	total := 0
	for _, entities := range c {
		total += len(entities)
	}
	return total
}
