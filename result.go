package redicalsearch

import (
	"fmt"
	"strconv"

	"github.com/redis/rueidis"
)

// Document is a single search hit or a fetched document.
type Document struct {
	ID string
	// Score is the relevance score; populated only when the search ran
	// with WithScores.
	Score float64
	// Payload is populated only when the search ran with WithPayloads.
	Payload string
	// SortKey is populated only when the search ran with WithSortKeys.
	SortKey string
	Fields  map[string]string
}

// SearchResult is one page of search hits.
type SearchResult struct {
	// Total is the number of matches in the index, independent of paging.
	Total     int
	Offset    int
	Limit     int
	Documents []Document
}

// Count reports the number of documents in this page.
func (r *SearchResult) Count() int { return len(r.Documents) }

// decodeSearchResult walks the flat FT.SEARCH reply: the total match count
// followed by per-hit groups whose stride depends on the flags the query
// ran with.
func decodeSearchResult(raw []rueidis.RedisMessage, flags SearchFlags, offset, limit int) (*SearchResult, error) {
	res := &SearchResult{Offset: offset, Limit: limit}
	if len(raw) == 0 {
		return res, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	res.Total = int(total)

	stride := 1
	if flags&WithScores != 0 {
		stride++
	}
	if flags&WithPayloads != 0 {
		stride++
	}
	if flags&WithSortKeys != 0 {
		stride++
	}
	if flags&NoContent == 0 {
		stride++
	}

	res.Documents = make([]Document, 0, (len(raw)-1)/stride)
	for i := 1; i+stride <= len(raw); i += stride {
		id, err := raw[i].ToString()
		if err != nil {
			continue
		}
		doc := Document{ID: id}

		j := i + 1
		if flags&WithScores != 0 {
			if s, err := raw[j].ToString(); err == nil {
				doc.Score, _ = strconv.ParseFloat(s, 64)
			}
			j++
		}
		if flags&WithPayloads != 0 {
			// Nil when the document carries no payload.
			if !raw[j].IsNil() {
				doc.Payload, _ = raw[j].ToString()
			}
			j++
		}
		if flags&WithSortKeys != 0 {
			if !raw[j].IsNil() {
				doc.SortKey, _ = raw[j].ToString()
			}
			j++
		}
		if flags&NoContent == 0 {
			if fields, err := raw[j].ToArray(); err == nil {
				doc.Fields = foldPairs(fields)
			}
		}

		res.Documents = append(res.Documents, doc)
	}

	return res, nil
}

// foldPairs collapses a flat alternating name/value array into a map.
// Entries whose name or value cannot be read as a string are skipped.
func foldPairs(pairs []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name, err := pairs[i].ToString()
		if err != nil {
			continue
		}
		value, err := pairs[i+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
