package model

import "fmt"

// Fact is one extracted disease-to-symptom-set relationship, one per source
// sentence. Immutable after extraction.
type Fact struct {
	Disease  Entity   `json:"disease"`
	Symptoms []Entity `json:"symptoms"`
}

func NewFact(disease Entity, symptoms []Entity) (Fact, error) {
	if disease.Kind != KindDisease {
		return Fact{}, fmt.Errorf("fact subject %q is not a disease", disease.Name)
	}
	if len(symptoms) == 0 {
		return Fact{}, fmt.Errorf("fact for %q has no symptoms", disease.Name)
	}
	for _, s := range symptoms {
		if s.Kind != KindSymptom {
			return Fact{}, fmt.Errorf("fact member %q is not a symptom", s.Name)
		}
	}
	return Fact{Disease: disease, Symptoms: symptoms}, nil
}
