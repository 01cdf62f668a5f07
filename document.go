package redicalsearch

import (
	"errors"
)

// ReplaceMode controls upsert semantics for AddDocument. Modes compose:
// ReplacePartial|ReplaceNoCreate updates only the supplied fields and only
// for documents that already exist.
type ReplaceMode uint8

const (
	// ReplaceDefault does a full reindexing upsert of the document.
	ReplaceDefault ReplaceMode = 1 << iota
	// ReplacePartial updates only the supplied fields; other fields keep
	// their current values and, if unaffected, are not reindexed.
	ReplacePartial
	// ReplaceNoCreate only applies to existing documents; the add fails if
	// the document is missing.
	ReplaceNoCreate
)

// FieldValue is one ordered name/value pair of a document.
type FieldValue struct {
	Name  string
	Value any
}

// Geo is a geographic point usable as a GEO field value. It renders as
// "lon,lat" with longitude first, matching the server's coordinate order.
type Geo struct {
	Latitude  float64
	Longitude float64
}

func (g Geo) String() string {
	return formatFloat(g.Longitude) + "," + formatFloat(g.Latitude)
}

// AddDocumentOptions are the parameters for AddDocument.
type AddDocumentOptions struct {
	// Score is the document's rank, between 0.0 and 1.0. Zero means the
	// default 1.0.
	Score float64

	// NoSave indexes the document without storing its content.
	NoSave bool

	Replace ReplaceMode

	// Language overrides the stemmer used to index this document.
	Language Language

	// Payload is a binary-safe payload exposed to custom scoring
	// functions.
	Payload string

	// IfCondition applies the replace only when this boolean expression
	// evaluates true against the existing document. Only meaningful with
	// Replace set.
	IfCondition string
}

var errNoFields = errors.New("redicalsearch: Field/value pairs must be supplied")

// buildAddArgs assembles the FT.ADD token sequence:
// index, id, score, NOSAVE, REPLACE [PARTIAL] [NOCREATE], LANGUAGE, PAYLOAD,
// IF, FIELDS, then the flattened pairs. Values containing a space are quoted
// so they stay a single wire token.
func buildAddArgs(index, docID string, fields []FieldValue, opts AddDocumentOptions) ([]string, error) {
	if len(fields) == 0 {
		return nil, errNoFields
	}

	score := opts.Score
	if score == 0 {
		score = 1.0
	}

	args := []string{"FT.ADD", index, docID, formatFloat(score)}
	if opts.NoSave {
		args = append(args, "NOSAVE")
	}
	if opts.Replace != 0 {
		args = append(args, "REPLACE")
		if opts.Replace&ReplacePartial != 0 {
			args = append(args, "PARTIAL")
		}
		if opts.Replace&ReplaceNoCreate != 0 {
			args = append(args, "NOCREATE")
		}
	}
	if opts.Language != "" {
		args = append(args, "LANGUAGE", string(opts.Language))
	}
	if opts.Payload != "" {
		args = append(args, "PAYLOAD", opts.Payload)
	}
	if opts.IfCondition != "" {
		args = append(args, "IF", quote(opts.IfCondition))
	}

	args = append(args, "FIELDS")
	for _, fv := range fields {
		args = append(args, fv.Name, quoteIfSpaced(stringify(fv.Value)))
	}
	return args, nil
}

func buildGetArgs(index, docID string) []string {
	return []string{"FT.GET", index, docID}
}
