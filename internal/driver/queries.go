package driver

const (
	SaveWorldNodeQuery = `
		MERGE (w:World {id: $id})
		SET w.prompt = $prompt,
			w.generated_at = $generated_at,
			w.title = $title,
			w.commercial_confidence = $commercial_confidence,
			w.confidence_corrected = $confidence_corrected
		RETURN w.id AS id
	`

	SaveUniverseNodeQuery = `
		MERGE (u:Universe {id: $id})
		SET u.name = $name,
			u.license_type = $license_type,
			u.commercial_confidence = $commercial_confidence
		RETURN u.id AS id
	`

	SaveUsesEdgeQuery = `
		MATCH (w:World {id: $world_id})
		MATCH (u:Universe {id: $universe_id})
		MERGE (w)-[e:USES]->(u)
		SET e.recorded_at = $recorded_at
		RETURN u.id AS id
	`

	SaveRefusalNodeQuery = `
		MERGE (r:Refusal {id: $id})
		SET r.prompt = $prompt,
			r.generated_at = $generated_at,
			r.reason = $reason,
			r.corpus_gap = $corpus_gap
		RETURN r.id AS id
	`

	GetWorldUniversesQuery = `
		MATCH (w:World {id: $world_id})-[:USES]->(u:Universe)
		RETURN u.id AS id, u.name AS name
	`
)
