package chainlog

import (
	"strconv"
	"strings"

	"github.com/worldkit/worldgen/internal/core/model"
)

// The registry's getGenerations call returns an array of 10-field tuples:
//
//	[(tokenId, generator, worldHash, manifestHash, "cid", [universes...], confidence, extensions, block, timestamp), ...]
//
// The chain-query tool prints that as debug text, not a versioned wire format,
// so decoding is best-effort: a tuple that cannot be tokenized or is too short
// is skipped rather than failing the whole batch.

// generationTupleFields is the minimum field count for a usable tuple.
const generationTupleFields = 10

// Decode parses the raw stdout of the chain-query tool into generation
// records. It never returns an error: unparseable tuples are dropped and a
// systemically unparseable input degrades to an empty list, which callers
// must treat as "zero known generations".
func Decode(raw string) []model.GenerationRecord {
	s := strings.TrimSpace(raw)
	if s == "" || s == "[]" {
		return nil
	}

	// Strip one layer of outer brackets around the tuple array.
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}

	var records []model.GenerationRecord
	for _, tuple := range splitTuples(s) {
		if rec, ok := decodeTuple(tuple); ok {
			records = append(records, rec)
		}
	}
	return records
}

// splitTopLevel splits s on commas at nesting depth zero, outside quoted
// spans. Parens and brackets both count toward depth; a double quote toggles
// the in-quote state, during which commas and delimiters are inert. Every
// segment is kept, including empty ones, so field positions stay stable.
func splitTopLevel(s string) []string {
	var parts []string
	var depth int
	var inQuote bool
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// splitTuples applies the same scan but treats top-level commas as
// discardable separators between tuples, not field boundaries.
func splitTuples(s string) []string {
	var tuples []string
	for _, p := range splitTopLevel(s) {
		if p = strings.TrimSpace(p); p != "" {
			tuples = append(tuples, p)
		}
	}
	return tuples
}

// decodeTuple maps one parenthesized tuple string onto a GenerationRecord.
// Returns ok=false when the tuple is malformed or has too few fields.
func decodeTuple(tuple string) (model.GenerationRecord, bool) {
	tuple = strings.TrimSpace(tuple)
	if !strings.HasPrefix(tuple, "(") || !strings.HasSuffix(tuple, ")") {
		return model.GenerationRecord{}, false
	}

	fields := splitTopLevel(tuple[1 : len(tuple)-1])
	if len(fields) < generationTupleFields {
		return model.GenerationRecord{}, false
	}

	return model.GenerationRecord{
		TokenID:              strings.TrimSpace(fields[0]),
		Generator:            strings.TrimSpace(fields[1]),
		WorldHash:            strings.TrimSpace(fields[2]),
		ManifestHash:         strings.TrimSpace(fields[3]),
		StorageCID:           unquote(fields[4]),
		UniversesUsed:        decodeStringArray(fields[5]),
		CommercialConfidence: decodeConfidence(fields[6]),
		BlockHeight:          strings.TrimSpace(fields[8]),
		Timestamp:            strings.TrimSpace(fields[9]),
	}, true
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// decodeStringArray parses a bracketed string array like ["univ:nouns", "univ:mfers"].
func decodeStringArray(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var out []string
	for _, elem := range strings.Split(s, ",") {
		if elem = unquote(elem); elem != "" {
			out = append(out, elem)
		}
	}
	return out
}

// decodeConfidence maps the on-chain confidence code to its string rating.
// Unparseable codes default to 0; unmapped codes pass through numerically so
// a contract upgrade adding a fourth level does not silently alias low.
func decodeConfidence(s string) string {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		code = 0
	}
	switch code {
	case 0:
		return model.ConfidenceLow
	case 1:
		return model.ConfidenceMedium
	case 2:
		return model.ConfidenceHigh
	default:
		return strconv.Itoa(code)
	}
}
