package redicalsearch

import (
	"fmt"
	"strconv"
)

// SearchFlags is a composable set of boolean search options. Tokens are
// emitted in the protocol's fixed order regardless of how flags were
// combined.
type SearchFlags uint16

const (
	// NoContent returns document ids only, without their content.
	NoContent SearchFlags = 1 << iota
	// Verbatim searches the query terms as-is, without stemming-based
	// expansion.
	Verbatim
	// NoStopwords keeps stopwords in the query instead of filtering them.
	NoStopwords
	// WithScores includes each document's internal relevance score in the
	// reply.
	WithScores
	// WithPayloads includes document payloads in the reply.
	WithPayloads
	// WithSortKeys includes the sorting key values in the reply. Only
	// meaningful with SortBy.
	WithSortKeys
	// InOrder requires query terms to appear in the document in query
	// order. Usually combined with Slop.
	InOrder
	// SortAsc sorts ascending by the SortBy field.
	SortAsc
	// SortDesc sorts descending by the SortBy field. If both SortAsc and
	// SortDesc are set, SortAsc wins.
	SortDesc
)

// NumericFilterFlags marks a numeric filter's bounds as exclusive.
type NumericFilterFlags uint8

const (
	ExclusiveMin NumericFilterFlags = 1 << iota
	ExclusiveMax
)

// NumericFilter restricts results to documents whose numeric field value
// falls in a range. Nil bounds default to -inf / +inf.
type NumericFilter struct {
	Field string
	Min   *float64
	Max   *float64
	Flags NumericFilterFlags
}

// GeoUnit is the distance unit of a geo filter radius.
type GeoUnit string

const (
	GeoFeet       GeoUnit = "ft"
	GeoKilometers GeoUnit = "km"
	GeoMeters     GeoUnit = "m"
	GeoMiles      GeoUnit = "mi"
)

func (u GeoUnit) valid() bool {
	switch u {
	case GeoFeet, GeoKilometers, GeoMeters, GeoMiles:
		return true
	}
	return false
}

// GeoFilter restricts results to documents whose GEO field falls within a
// radius around a point.
type GeoFilter struct {
	Field     string
	Longitude float64
	Latitude  float64
	Radius    float64
	Unit      GeoUnit
}

// Summarize fragments returned text fields into snippets containing the
// matched terms. Zero-valued sub-options fall back to server defaults
// (3 fragments of 20 context words, separated by "...").
type Summarize struct {
	// Fields to summarize; empty means all returned fields.
	Fields []string
	// Frags is the number of snippets to return per field.
	Frags int
	// Len is the number of context words per snippet.
	Len int
	// Separator divides consecutive snippets.
	Separator string
}

// Highlight wraps matched terms in the returned text with a tag pair. Both
// tags must be supplied together.
type Highlight struct {
	// Fields to highlight; empty means all returned fields.
	Fields   []string
	OpenTag  string
	CloseTag string
}

// SearchOptions are the parameters for Search. The zero value runs a plain
// query returning the first ten results.
type SearchOptions struct {
	Flags SearchFlags

	// NumericFilters are emitted in the order supplied.
	NumericFilters []NumericFilter

	GeoFilter *GeoFilter

	// InKeys restricts results to this set of document keys.
	InKeys []string

	// InFields restricts matching to these document fields.
	InFields []string

	// ReturnFields projects the reply down to these fields.
	ReturnFields []string

	Summarize *Summarize
	Highlight *Highlight

	// Slop allows up to N intervening unmatched terms between phrase
	// terms. Nil means no slop restriction; zero means exact phrases.
	Slop *int

	// Language selects the stemmer used for query expansion.
	Language Language

	// Expander names a custom query expander registered on the server.
	Expander string

	// Scorer names a custom scoring function registered on the server.
	Scorer string

	// Payload is an arbitrary payload exposed to custom scoring functions.
	Payload string

	// SortBy orders results by a sortable field. Direction comes from the
	// SortAsc/SortDesc flags.
	SortBy string

	// Offset is the first result to return.
	Offset int

	// Limit caps the page size. Zero means the default of 10; to count
	// matches without returning any, use Client.Count.
	Limit int
}

// buildSearchArgs assembles the FT.SEARCH token sequence. The option order
// below is the server's grammar order; deviating silently misparses the
// command.
func buildSearchArgs(index, query string, opts SearchOptions) ([]string, int, error) {
	args := []string{"FT.SEARCH", index, quote(query)}

	if opts.Flags&NoContent != 0 {
		args = append(args, "NOCONTENT")
	}
	if opts.Flags&Verbatim != 0 {
		args = append(args, "VERBATIM")
	}
	if opts.Flags&NoStopwords != 0 {
		args = append(args, "NOSTOPWORDS")
	}
	if opts.Flags&WithScores != 0 {
		args = append(args, "WITHSCORES")
	}
	if opts.Flags&WithPayloads != 0 {
		args = append(args, "WITHPAYLOADS")
	}
	if opts.Flags&WithSortKeys != 0 {
		args = append(args, "WITHSORTKEYS")
	}

	for _, f := range opts.NumericFilters {
		if f.Field == "" {
			return nil, 0, fmt.Errorf("redicalsearch: numeric filter requires a field")
		}
		args = append(args, "FILTER", f.Field, numericBound(f.Min, f.Flags&ExclusiveMin != 0, "-inf"),
			numericBound(f.Max, f.Flags&ExclusiveMax != 0, "+inf"))
	}

	if g := opts.GeoFilter; g != nil {
		if !g.Unit.valid() {
			return nil, 0, fmt.Errorf("redicalsearch: invalid geo filter unit: %q", g.Unit)
		}
		// Longitude before latitude, per the server's coordinate order.
		args = append(args, "GEOFILTER", g.Field,
			formatFloat(g.Longitude), formatFloat(g.Latitude), formatFloat(g.Radius), string(g.Unit))
	}

	if len(opts.InKeys) > 0 {
		args = append(args, "INKEYS", strconv.Itoa(len(opts.InKeys)))
		args = append(args, opts.InKeys...)
	}
	if len(opts.InFields) > 0 {
		args = append(args, "INFIELDS", strconv.Itoa(len(opts.InFields)))
		args = append(args, opts.InFields...)
	}
	if len(opts.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(opts.ReturnFields)))
		args = append(args, opts.ReturnFields...)
	}

	if s := opts.Summarize; s != nil {
		args = append(args, "SUMMARIZE")
		if len(s.Fields) > 0 {
			args = append(args, "FIELDS", strconv.Itoa(len(s.Fields)))
			args = append(args, s.Fields...)
		}
		if s.Frags > 0 {
			args = append(args, "FRAGS", strconv.Itoa(s.Frags))
		}
		if s.Len > 0 {
			args = append(args, "LEN", strconv.Itoa(s.Len))
		}
		if s.Separator != "" {
			args = append(args, "SEPARATOR", quote(s.Separator))
		}
	}

	if h := opts.Highlight; h != nil {
		if (h.OpenTag == "") != (h.CloseTag == "") {
			return nil, 0, fmt.Errorf("redicalsearch: highlight requires both open and close tags")
		}
		args = append(args, "HIGHLIGHT")
		if len(h.Fields) > 0 {
			args = append(args, "FIELDS", strconv.Itoa(len(h.Fields)))
			args = append(args, h.Fields...)
		}
		if h.OpenTag != "" {
			args = append(args, "TAGS", h.OpenTag, h.CloseTag)
		}
	}

	if opts.Slop != nil {
		args = append(args, "SLOP", strconv.Itoa(*opts.Slop))
	}
	// INORDER is accepted by the server with or without SLOP.
	if opts.Flags&InOrder != 0 {
		args = append(args, "INORDER")
	}

	if opts.Language != "" {
		args = append(args, "LANGUAGE", string(opts.Language))
	}
	if opts.Expander != "" {
		args = append(args, "EXPANDER", opts.Expander)
	}
	if opts.Scorer != "" {
		args = append(args, "SCORER", opts.Scorer)
	}
	if opts.Payload != "" {
		args = append(args, "PAYLOAD", opts.Payload)
	}

	if opts.SortBy != "" {
		args = append(args, "SORTBY", opts.SortBy)
		// SortAsc wins when both direction flags are set.
		if opts.Flags&SortAsc != 0 {
			args = append(args, "ASC")
		} else if opts.Flags&SortDesc != 0 {
			args = append(args, "DESC")
		}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = 10
	}
	args = append(args, "LIMIT", strconv.Itoa(opts.Offset), strconv.Itoa(limit))
	return args, limit, nil
}

// numericBound renders one side of a numeric filter: a float literal,
// "("-prefixed when exclusive, or the infinity fallback when unset.
func numericBound(v *float64, exclusive bool, inf string) string {
	if v == nil {
		return inf
	}
	s := formatFloat(*v)
	if exclusive {
		return "(" + s
	}
	return s
}
