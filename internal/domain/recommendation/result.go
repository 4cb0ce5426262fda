// Package recommendation defines the result shape returned by the insights
// collaborator and passed to the response formatter.
package recommendation

// Location is an optional entity location.
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Entity is a loosely-typed recommendation record. The schema is owned by
// the insights collaborator; only ID plus name-or-title are reliable.
type Entity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// DisplayName returns the entity's name, falling back to its title.
func (e Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

// Result is one insights query outcome. Err is a soft error marker: it is
// set when the provider failed hard, and its presence disables the
// empty-result fallback cascade.
type Result struct {
	Entities []Entity `json:"entities,omitempty"`
	Insights []Entity `json:"insights,omitempty"`
	Err      string   `json:"error,omitempty"`
}

// Items returns the entities, falling back to insights when empty.
func (r Result) Items() []Entity {
	if len(r.Entities) > 0 {
		return r.Entities
	}
	return r.Insights
}

// IsEmpty reports whether the result carries no entities at all.
func (r Result) IsEmpty() bool {
	return len(r.Entities) == 0 && len(r.Insights) == 0
}

// HasError reports whether the provider flagged a hard failure.
func (r Result) HasError() bool { return r.Err != "" }

// Failed builds a Result carrying only a soft error marker.
func Failed(msg string) Result { return Result{Err: msg} }
