package domain

// EntityKind is the type tag of an extracted conversation entity.
type EntityKind string

// Known entity kinds produced by the extraction step.
const (
	// EntityPersonName marks an explicit person mention — the rule-based
	// matching signal, excluded from generative scoring.
	EntityPersonName EntityKind = "person_name"
	EntitySector     EntityKind = "sector"
	EntityStage      EntityKind = "stage"
	EntityCheckSize  EntityKind = "check_size"
	EntityGeography  EntityKind = "geography"
	EntityPersona    EntityKind = "persona_type"
)

// IsValid checks if the kind is one of the known values.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityPersonName, EntitySector, EntityStage, EntityCheckSize, EntityGeography, EntityPersona:
		return true
	}
	return false
}

// Entity is a typed fact extracted from a conversation transcript.
// Immutable once created by the extraction step.
type Entity struct {
	ID             string
	ConversationID string
	Kind           EntityKind
	Value          string
	// Confidence is the extractor's confidence in [0,1]. 0 when not reported.
	Confidence float64
	// Context is the transcript snippet the entity was extracted from.
	Context string
}
