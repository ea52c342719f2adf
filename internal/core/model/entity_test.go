package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "sore throat", NormalizeName("  Sore   Throat "))
	assert.Equal(t, "flu", NormalizeName("FLU"))
	assert.Equal(t, "", NormalizeName("   "))
}

// TestEntityIDStable ensures ids depend only on kind and normalized name,
// so rebuilds republish the same nodes.
func TestEntityIDStable(t *testing.T) {
	a := EntityID("Sore Throat", KindSymptom)
	b := EntityID("sore   throat", KindSymptom)
	assert.Equal(t, a, b)

	// The same name under a different kind is a different entity.
	assert.NotEqual(t, a, EntityID("Sore Throat", KindDisease))
	assert.NotEqual(t, a, EntityID("fever", KindSymptom))
}

func TestNewEntityKeepsDisplayCasing(t *testing.T) {
	e := NewEntity("  Sore   Throat ", KindSymptom)
	assert.Equal(t, "Sore Throat", e.Name)
	assert.Equal(t, KindSymptom, e.Kind)
	assert.Equal(t, EntityID("sore throat", KindSymptom), e.ID)
}

func TestNewFactValidation(t *testing.T) {
	disease := NewEntity("Flu", KindDisease)
	symptom := NewEntity("fever", KindSymptom)

	fact, err := NewFact(disease, []Entity{symptom})
	assert.NoError(t, err)
	assert.Equal(t, "Flu", fact.Disease.Name)

	_, err = NewFact(symptom, []Entity{symptom})
	assert.Error(t, err)

	_, err = NewFact(disease, nil)
	assert.Error(t, err)

	_, err = NewFact(disease, []Entity{disease})
	assert.Error(t, err)
}
