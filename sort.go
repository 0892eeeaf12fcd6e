package docstore

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortField is one sort key and its direction, SortAsc or SortDesc.
type SortField struct {
	Field     string
	Direction string
}

// SortSpec is an ordered list of sort keys. A direction equal to "desc" in any
// case sorts descending, anything else ascending.
type SortSpec []SortField

// SortBy builds a SortSpec from field/direction pairs. A trailing field
// without a direction sorts ascending.
//
// example:
//
//	SortBy("created_at", "desc", "name", "asc")
func SortBy(pairs ...string) SortSpec {
	var spec SortSpec
	for i := 0; i < len(pairs); i += 2 {
		dir := SortAsc
		if i+1 < len(pairs) {
			dir = pairs[i+1]
		}

		spec = append(spec, SortField{Field: pairs[i], Direction: dir})
	}

	return spec
}

// ParseSort builds a SortSpec from field names prefixed by "-" for descending
// order, and optionally "+" for ascending order.
//
// example:
//
//	ParseSort("-name", "+age")
func ParseSort(sorter ...string) SortSpec {
	var spec SortSpec
	for _, s := range sorter {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		dir := SortAsc
		field := s
		switch s[:1] {
		case "-":
			dir = SortDesc
			field = s[1:]
		case "+":
			field = s[1:]
		}

		spec = append(spec, SortField{Field: field, Direction: dir})
	}

	return spec
}

// SortFromMap builds a SortSpec from a field -> direction map. Map iteration
// order is random, so keys are ordered alphabetically.
func SortFromMap(m map[string]string) SortSpec {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	spec := make(SortSpec, 0, len(keys))
	for _, k := range keys {
		spec = append(spec, SortField{Field: k, Direction: m[k]})
	}

	return spec
}

// Document renders the sort keys as a mongo sort document. Every key takes part
// in the order; a repeated field keeps its first position and its last
// direction.
func (s SortSpec) Document() bson.D {
	doc := make(bson.D, 0, len(s))
	pos := make(map[string]int, len(s))
	for _, f := range s {
		dir := 1
		if strings.EqualFold(strings.TrimSpace(f.Direction), SortDesc) {
			dir = -1
		}

		if i, ok := pos[f.Field]; ok {
			doc[i].Value = dir
			continue
		}

		pos[f.Field] = len(doc)
		doc = append(doc, bson.E{Key: f.Field, Value: dir})
	}

	return doc
}
