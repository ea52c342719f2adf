package store

const (
	// Labels cannot be parameterized in Cypher, so node upserts are split
	// per label.
	upsertDiseaseQuery = `
		MERGE (n:Disease {uuid: $uuid})
		SET n.name = $name
		RETURN n.uuid AS uuid
	`

	upsertSymptomQuery = `
		MERGE (n:Symptom {uuid: $uuid})
		SET n.name = $name
		RETURN n.uuid AS uuid
	`

	upsertHasSymptomQuery = `
		MATCH (d:Disease {uuid: $from_uuid})
		MATCH (s:Symptom {uuid: $to_uuid})
		MERGE (d)-[e:HAS_SYMPTOM]->(s)
		RETURN d.uuid AS uuid
	`

	neighborsQuery = `
		MATCH (n {uuid: $uuid})-[:HAS_SYMPTOM]-(m)
		RETURN m.uuid AS uuid, m.name AS name, labels(m) AS labels
		ORDER BY m.name
	`

	nodesByLabelDiseaseQuery = `
		MATCH (n:Disease)
		RETURN n.uuid AS uuid, n.name AS name
		ORDER BY n.name
	`

	nodesByLabelSymptomQuery = `
		MATCH (n:Symptom)
		RETURN n.uuid AS uuid, n.name AS name
		ORDER BY n.name
	`

	// Scoped to the labels this store owns; other graphs in the same
	// database are left alone.
	clearGraphQuery = `
		MATCH (n)
		WHERE n:Disease OR n:Symptom
		DETACH DELETE n
	`
)
