package docstore

import (
	"reflect"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// ByID matches the document whose _id equals id.
func ByID(id any) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// Where turns an equality map into a filter document. Slice values with more
// than one element match with $in, single element slices match the element and
// empty slices are ignored. Keys are ordered alphabetically.
func Where(filterMap map[string]any) bson.D {
	keys := make([]string, 0, len(filterMap))
	for k := range filterMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var filter = bson.D{}
	for _, k := range keys {
		v := filterMap[k]
		vval := reflect.ValueOf(v)
		if v == nil || vval.Kind() != reflect.Slice || vval.Type().Elem().Kind() == reflect.Uint8 {
			filter = append(filter, bson.E{Key: k, Value: v})
			continue
		}

		switch vval.Len() {
		case 0:
			continue
		case 1:
			filter = append(filter, bson.E{Key: k, Value: vval.Index(0).Interface()})
		default:
			filter = append(filter, bson.E{Key: k, Value: bson.M{"$in": v}})
		}
	}

	return filter
}
