package redicalsearch

import (
	"fmt"

	"github.com/redis/rueidis"
)

// IndexDefinition mirrors the index_definition section of an FT.INFO
// reply.
type IndexDefinition struct {
	KeyType       string
	Prefixes      []string
	Filter        string
	LanguageField string
	DefaultScore  float64
	ScoreField    string
	PayloadField  string
}

// FieldDefinition describes one schema field as the server reports it.
type FieldDefinition struct {
	Name string
	Type FieldType
	// Options are the remaining attribute tokens, e.g. WEIGHT, 1,
	// SORTABLE, in reply order.
	Options []string
}

// IndexInfo is a decoded FT.INFO reply. Statistics the server does not
// report stay at their zero values.
type IndexInfo struct {
	Name       string
	Options    []string
	Definition IndexDefinition
	Fields     []FieldDefinition

	NumDocs              int64
	MaxDocID             int64
	NumTerms             int64
	NumRecords           int64
	InvertedSizeMB       float64
	OffsetVectorsSzMB    float64
	DocTableSizeMB       float64
	KeyTableSizeMB       float64
	RecordsPerDocAvg     float64
	BytesPerRecordAvg    float64
	OffsetsPerTermAvg    float64
	OffsetBitsPerRec     float64
	HashIndexingFailures int64
	Indexing             bool
	PercentIndexed       float64
}

// decodeIndexInfo folds the flat key/value FT.INFO reply into IndexInfo.
// Unknown keys are ignored so newer server versions decode cleanly.
func decodeIndexInfo(raw []rueidis.RedisMessage) (*IndexInfo, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("malformed info reply: %d elements", len(raw))
	}

	info := &IndexInfo{}
	for i := 0; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			return nil, fmt.Errorf("parse info key: %w", err)
		}
		val := raw[i+1]

		switch key {
		case "index_name":
			info.Name, _ = val.ToString()
		case "index_options":
			if arr, err := val.ToArray(); err == nil {
				info.Options = toStrings(arr)
			}
		case "index_definition":
			if arr, err := val.ToArray(); err == nil {
				info.Definition = decodeIndexDefinition(arr)
			}
		case "fields", "attributes":
			if arr, err := val.ToArray(); err == nil {
				info.Fields = decodeFieldDefinitions(arr)
			}
		case "num_docs":
			info.NumDocs, _ = val.AsInt64()
		case "max_doc_id":
			info.MaxDocID, _ = val.AsInt64()
		case "num_terms":
			info.NumTerms, _ = val.AsInt64()
		case "num_records":
			info.NumRecords, _ = val.AsInt64()
		case "inverted_sz_mb":
			info.InvertedSizeMB, _ = val.AsFloat64()
		case "offset_vectors_sz_mb":
			info.OffsetVectorsSzMB, _ = val.AsFloat64()
		case "doc_table_size_mb":
			info.DocTableSizeMB, _ = val.AsFloat64()
		case "key_table_size_mb":
			info.KeyTableSizeMB, _ = val.AsFloat64()
		case "records_per_doc_avg":
			info.RecordsPerDocAvg, _ = val.AsFloat64()
		case "bytes_per_record_avg":
			info.BytesPerRecordAvg, _ = val.AsFloat64()
		case "offsets_per_term_avg":
			info.OffsetsPerTermAvg, _ = val.AsFloat64()
		case "offset_bits_per_record_avg":
			info.OffsetBitsPerRec, _ = val.AsFloat64()
		case "hash_indexing_failures":
			info.HashIndexingFailures, _ = val.AsInt64()
		case "indexing":
			n, _ := val.AsInt64()
			info.Indexing = n != 0
		case "percent_indexed":
			info.PercentIndexed, _ = val.AsFloat64()
		}
	}

	return info, nil
}

func decodeIndexDefinition(raw []rueidis.RedisMessage) IndexDefinition {
	var def IndexDefinition
	for i := 0; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		val := raw[i+1]

		switch key {
		case "key_type":
			def.KeyType, _ = val.ToString()
		case "prefixes":
			if arr, err := val.ToArray(); err == nil {
				def.Prefixes = nonEmptyStrings(arr)
			}
		case "filter":
			def.Filter, _ = val.ToString()
		case "language_field":
			def.LanguageField, _ = val.ToString()
		case "default_score":
			def.DefaultScore, _ = val.AsFloat64()
		case "score_field":
			def.ScoreField, _ = val.ToString()
		case "payload_field":
			def.PayloadField, _ = val.ToString()
		}
	}
	return def
}

// decodeFieldDefinitions reads the per-field attribute arrays. Each entry
// is [name, "type", <TYPE>, option tokens...].
func decodeFieldDefinitions(raw []rueidis.RedisMessage) []FieldDefinition {
	fields := make([]FieldDefinition, 0, len(raw))
	for _, msg := range raw {
		attrs, err := msg.ToArray()
		if err != nil || len(attrs) < 3 {
			continue
		}
		name, err := attrs[0].ToString()
		if err != nil {
			continue
		}
		typ, err := attrs[2].ToString()
		if err != nil {
			continue
		}
		fields = append(fields, FieldDefinition{
			Name:    name,
			Type:    FieldType(typ),
			Options: toStrings(attrs[3:]),
		})
	}
	return fields
}

func toStrings(raw []rueidis.RedisMessage) []string {
	out := make([]string, 0, len(raw))
	for _, msg := range raw {
		if s, err := msg.ToString(); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// nonEmptyStrings drops the empty-string placeholder the server reports
// when an index was created without an explicit prefix.
func nonEmptyStrings(raw []rueidis.RedisMessage) []string {
	out := make([]string, 0, len(raw))
	for _, msg := range raw {
		if s, err := msg.ToString(); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}
