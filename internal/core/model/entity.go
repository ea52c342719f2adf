package model

import (
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindUnknown Kind = ""
	KindDisease Kind = "Disease"
	KindSymptom Kind = "Symptom"
)

// Namespace for name-derived entity ids. Ids must be stable across rebuilds
// so that republishing the same knowledge base is idempotent in the store.
var entityNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

type Entity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Ordinal int    `json:"-"` // first-seen position, used for stable tie-breaks
}

// NormalizeName is the canonical dedup key: trimmed, inner whitespace
// collapsed, case-folded.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// EntityID derives the stable id for a mention. Two mentions with the same
// kind and normalized name always map to the same id.
func EntityID(name string, kind Kind) string {
	key := string(kind) + ":" + NormalizeName(name)
	return uuid.NewSHA1(entityNamespace, []byte(key)).String()
}

// NewEntity builds an Entity from a raw mention. Display name keeps the
// mention's casing with whitespace collapsed.
func NewEntity(name string, kind Kind) Entity {
	return Entity{
		ID:   EntityID(name, kind),
		Name: strings.Join(strings.Fields(name), " "),
		Kind: kind,
	}
}
