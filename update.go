package docstore

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// UpdateOp sets the field at Path to Value.
type UpdateOp struct {
	Path  string
	Value any
}

// Projection is the ordered list of field assignments derived from a patch.
type Projection []UpdateOp

// Paths returns the field paths in order.
func (p Projection) Paths() []string {
	return sliceMap(p, func(op UpdateOp) string {
		return op.Path
	})
}

// Document renders the projection as a single $set update document.
func (p Projection) Document() bson.D {
	set := make(bson.D, 0, len(p))
	for _, op := range p {
		set = append(set, bson.E{Key: op.Path, Value: op.Value})
	}

	return bson.D{{Key: "$set", Value: set}}
}

// BuildProjection walks the fields of patch depth-first and returns the
// assignments needed to apply it as a partial update. Identity fields and
// values that are nil or render as an empty string never produce an
// operation. Nested objects are expanded one level; objects inside
// collections are expanded recursively under their slot index.
func BuildProjection(patch any, prefix string) (Projection, error) {
	if isAbsent(patch) {
		return nil, errors.Wrap(ErrInvalidArgument, "patch must not be nil")
	}

	fields, err := Describe(patch)
	if err != nil {
		return nil, err
	}

	var ops Projection
	for _, f := range fields {
		if isIdentityField(f.Name) || isAbsent(f.Value) {
			continue
		}

		path := joinPath(prefix, f.Name)
		switch f.Kind {
		case KindCollection:
			items, err := collectionItems(path, f.Value)
			if err != nil {
				return nil, err
			}

			for i, item := range items {
				if isAbsent(item) {
					continue
				}

				itemPath := joinPath(path, strconv.Itoa(i))
				if kindOf(item) == KindObject {
					sub, err := BuildProjection(item, itemPath)
					if err != nil {
						return nil, err
					}

					ops = append(ops, sub...)
					continue
				}

				if op, ok, err := scalarOp(itemPath, derefScalar(item)); err != nil {
					return nil, err
				} else if ok {
					ops = append(ops, op)
				}
			}

		case KindObject:
			subFields, err := Describe(f.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s", path)
			}

			for _, sf := range subFields {
				if isIdentityField(sf.Name) || isAbsent(sf.Value) {
					continue
				}

				subPath := joinPath(path, sf.Name)
				if sf.Kind != KindScalar {
					ops = append(ops, UpdateOp{Path: subPath, Value: sf.Value})
					continue
				}

				if op, ok, err := scalarOp(subPath, derefScalar(sf.Value)); err != nil {
					return nil, err
				} else if ok {
					ops = append(ops, op)
				}
			}

		default:
			if op, ok, err := scalarOp(path, derefScalar(f.Value)); err != nil {
				return nil, err
			} else if ok {
				ops = append(ops, op)
			}
		}
	}

	return ops, nil
}

func scalarOp(path string, value any) (UpdateOp, bool, error) {
	empty, err := isEmptyValue(value)
	if err != nil {
		return UpdateOp{}, false, errors.Wrapf(err, "field %s", path)
	}

	if empty {
		return UpdateOp{}, false, nil
	}

	return UpdateOp{Path: path, Value: value}, true, nil
}

func collectionItems(path string, value any) ([]any, error) {
	if items, ok := value.([]any); ok {
		return items, nil
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, errors.Wrapf(ErrReflection, "field %s: %T is not a collection", path, value)
	}

	items := make([]any, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}

	return items, nil
}

// isIdentityField matches "id" in any case and MongoDB's "_id".
func isIdentityField(name string) bool {
	return strings.EqualFold(name, "id") || name == "_id"
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}
