package redicalsearch

import (
	"fmt"
	"strconv"
)

// Structure is the storage type documents in an index are read from.
type Structure string

// StructureHash indexes documents stored as hashes. It is currently the only
// structure the server supports.
const StructureHash Structure = "HASH"

// CreateFlags is a composable set of boolean index-creation options. Tokens
// are emitted in the protocol's fixed order regardless of how flags were
// combined.
type CreateFlags uint8

const (
	// MaxTextFields forces the wide index encoding so that more than 32
	// text fields can be added later via AlterSchemaAdd.
	MaxTextFields CreateFlags = 1 << iota
	// NoFields skips storing field bits per term. Saves memory but
	// disables filtering by specific fields.
	NoFields
	// NoFrequencies skips storing term frequencies. Saves memory but
	// disables frequency-based ranking.
	NoFrequencies
	// NoHighlights disables highlighting support. Implied by NoOffsets.
	NoHighlights
	// NoOffsets skips storing term offsets. Saves memory but disables
	// exact-phrase search and highlighting. Implies NoHighlights.
	NoOffsets
	// SkipInitialScan skips scanning and indexing existing keys when the
	// index is created.
	SkipInitialScan
)

// CreateIndexOptions are the parameters for CreateIndex.
//
// Two wire grammars exist. When On is set the modern prefixed grammar is
// used and every option below is available. When On is left zero the command
// is emitted in the older grammar, which only understands Flags
// (MaxTextFields, NoFields, NoFrequencies, NoHighlights, NoOffsets),
// Stopwords and Temporary; setting any other option without On is a
// validation error.
type CreateIndexOptions struct {
	// On selects the document structure to index (StructureHash).
	On Structure

	// Prefixes tells the index which keys to index. Empty means all keys.
	Prefixes []string

	// Filter is a filter expression in the server's aggregation expression
	// language.
	Filter string

	// Language is the default language for documents in the index.
	Language Language

	// LanguageField names the document field holding the per-document
	// language.
	LanguageField string

	// PayloadField names the document field used as the binary-safe
	// document payload.
	PayloadField string

	// Score is the default document score, between 0.0 and 1.0 inclusive.
	// Nil means the server default (1.0).
	Score *float64

	// ScoreField names the document field holding the per-document rank.
	ScoreField string

	// Stopwords replaces the index's stopword list. Nil keeps the server
	// default; an empty non-nil slice disables stopwords entirely.
	Stopwords []string

	// Temporary makes the index expire after this many seconds of
	// inactivity.
	Temporary int

	Flags CreateFlags
}

// buildCreateArgs assembles the full FT.CREATE token sequence. Emission
// order is fixed; the server parses positionally.
func buildCreateArgs(name string, schema *Schema, opts CreateIndexOptions) ([]string, error) {
	fieldArgs, err := schema.encode()
	if err != nil {
		return nil, err
	}
	if opts.Score != nil {
		if s := *opts.Score; s < 0 || s > 1 {
			return nil, fmt.Errorf("redicalsearch: score must be between 0.0 and 1.0, got %v", s)
		}
	}

	args := []string{"FT.CREATE", name}
	if opts.On != "" {
		args, err = appendCreateOptions(args, opts)
	} else {
		args, err = appendLegacyCreateOptions(args, opts)
	}
	if err != nil {
		return nil, err
	}

	args = append(args, "SCHEMA")
	return append(args, fieldArgs...), nil
}

// appendCreateOptions emits the modern grammar: ON, PREFIX, FILTER, the
// language/payload/score options, STOPWORDS, TEMPORARY, then the boolean
// flags, in that order.
func appendCreateOptions(args []string, opts CreateIndexOptions) ([]string, error) {
	args = append(args, "ON", string(opts.On))
	if len(opts.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(opts.Prefixes)))
		args = append(args, opts.Prefixes...)
	}
	if opts.Filter != "" {
		args = append(args, "FILTER", opts.Filter)
	}
	if opts.Language != "" {
		args = append(args, "LANGUAGE", string(opts.Language))
	}
	if opts.LanguageField != "" {
		args = append(args, "LANGUAGE_FIELD", opts.LanguageField)
	}
	if opts.PayloadField != "" {
		args = append(args, "PAYLOAD_FIELD", opts.PayloadField)
	}
	if opts.Score != nil {
		args = append(args, "SCORE", formatFloat(*opts.Score))
	}
	if opts.ScoreField != "" {
		args = append(args, "SCORE_FIELD", opts.ScoreField)
	}
	if opts.Stopwords != nil {
		args = append(args, "STOPWORDS", strconv.Itoa(len(opts.Stopwords)))
		args = append(args, opts.Stopwords...)
	}
	if opts.Temporary > 0 {
		args = append(args, "TEMPORARY", strconv.Itoa(opts.Temporary))
	}
	if opts.Flags&MaxTextFields != 0 {
		args = append(args, "MAXTEXTFIELDS")
	}
	if opts.Flags&NoFields != 0 {
		args = append(args, "NOFIELDS")
	}
	if opts.Flags&NoFrequencies != 0 {
		args = append(args, "NOFREQS")
	}
	if opts.Flags&NoHighlights != 0 {
		args = append(args, "NOHL")
	}
	if opts.Flags&NoOffsets != 0 {
		args = append(args, "NOOFFSETS")
	}
	if opts.Flags&SkipInitialScan != 0 {
		args = append(args, "SKIPINITIALSCAN")
	}
	return args, nil
}

// appendLegacyCreateOptions emits the pre-prefix grammar: MAXTEXTFIELDS,
// TEMPORARY, NOOFFSETS, NOHL, NOFIELDS, NOFREQS, STOPWORDS, in that order.
func appendLegacyCreateOptions(args []string, opts CreateIndexOptions) ([]string, error) {
	switch {
	case len(opts.Prefixes) > 0:
		return nil, fmt.Errorf("redicalsearch: prefixes require On to be set")
	case opts.Filter != "":
		return nil, fmt.Errorf("redicalsearch: filter requires On to be set")
	case opts.Language != "" || opts.LanguageField != "":
		return nil, fmt.Errorf("redicalsearch: language options require On to be set")
	case opts.PayloadField != "":
		return nil, fmt.Errorf("redicalsearch: payload field requires On to be set")
	case opts.Score != nil || opts.ScoreField != "":
		return nil, fmt.Errorf("redicalsearch: score options require On to be set")
	case opts.Flags&SkipInitialScan != 0:
		return nil, fmt.Errorf("redicalsearch: SkipInitialScan requires On to be set")
	}

	if opts.Flags&MaxTextFields != 0 {
		args = append(args, "MAXTEXTFIELDS")
	}
	if opts.Temporary > 0 {
		args = append(args, "TEMPORARY", strconv.Itoa(opts.Temporary))
	}
	if opts.Flags&NoOffsets != 0 {
		args = append(args, "NOOFFSETS")
	}
	if opts.Flags&NoHighlights != 0 {
		args = append(args, "NOHL")
	}
	if opts.Flags&NoFields != 0 {
		args = append(args, "NOFIELDS")
	}
	if opts.Flags&NoFrequencies != 0 {
		args = append(args, "NOFREQS")
	}
	if opts.Stopwords != nil {
		args = append(args, "STOPWORDS", strconv.Itoa(len(opts.Stopwords)))
		args = append(args, opts.Stopwords...)
	}
	return args, nil
}

// buildAlterArgs assembles FT.ALTER <index> SCHEMA ADD <fields...>.
func buildAlterArgs(name string, schema *Schema) ([]string, error) {
	fieldArgs, err := schema.encode()
	if err != nil {
		return nil, err
	}
	args := []string{"FT.ALTER", name, "SCHEMA", "ADD"}
	return append(args, fieldArgs...), nil
}
