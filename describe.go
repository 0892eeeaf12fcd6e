package docstore

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// FieldKind tells the update builder how to expand a field.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindObject
	KindCollection
)

func (k FieldKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindCollection:
		return "collection"
	default:
		return "scalar"
	}
}

// Field is one patchable field of a record: its stored name, its kind and its
// current value. Object values must be describable, collection values must be
// slices.
type Field struct {
	Name  string
	Kind  FieldKind
	Value any
}

// Describer is implemented by record types that list their own fields instead
// of being introspected through struct tags.
type Describer interface {
	DescribeFields() []Field
}

// Scalar describes a field written as a single value.
func Scalar(name string, value any) Field {
	return Field{Name: name, Kind: KindScalar, Value: value}
}

// Object describes a nested record expanded one level into sub-field paths.
func Object(name string, value any) Field {
	return Field{Name: name, Kind: KindObject, Value: value}
}

// Collection describes a list field whose items are written slot by slot.
func Collection(name string, items []any) Field {
	if items == nil {
		return Field{Name: name, Kind: KindCollection}
	}

	return Field{Name: name, Kind: KindCollection, Value: items}
}

// Items converts a typed slice into the []any form expected by Collection.
// A nil slice stays nil so the field is treated as absent.
func Items[E any](list []E) []any {
	if list == nil {
		return nil
	}

	return sliceMap(list, func(val E) any {
		return val
	})
}

// fieldPlan is the cached description of one exported struct field.
type fieldPlan struct {
	index     []int
	name      string
	omitEmpty bool
}

var fieldPlans sync.Map // reflect.Type -> []fieldPlan

var (
	timeType           = reflect.TypeOf(time.Time{})
	bsonMarshalerType  = reflect.TypeOf((*bson.Marshaler)(nil)).Elem()
	bsonValueMarshaler = reflect.TypeOf((*bson.ValueMarshaler)(nil)).Elem()
	describerType      = reflect.TypeOf((*Describer)(nil)).Elem()
)

// Describe returns the fields of a record. Describer implementations are used
// as is; structs and string keyed maps are described from their bson layout.
func Describe(value any) ([]Field, error) {
	if isAbsent(value) {
		return nil, errors.Wrap(ErrInvalidArgument, "cannot describe a nil value")
	}

	if d, ok := asDescriber(value); ok {
		return d.DescribeFields(), nil
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return describeStruct(v)
	case reflect.Map:
		return describeMap(v)
	}

	return nil, errors.Wrapf(ErrReflection, "%T is not record-shaped", value)
}

// asDescriber also finds DescribeFields declared on the pointer receiver of
// a value passed by copy.
func asDescriber(value any) (Describer, bool) {
	if d, ok := value.(Describer); ok {
		return d, true
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr || !reflect.PtrTo(v.Type()).Implements(describerType) {
		return nil, false
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	d, ok := ptr.Interface().(Describer)
	return d, ok
}

func describeStruct(v reflect.Value) ([]Field, error) {
	plans, err := planFor(v.Type())
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(plans))
	for _, p := range plans {
		fv, ok := fieldByIndex(v, p.index)
		if !ok {
			continue
		}

		if p.omitEmpty && fv.IsZero() {
			continue
		}

		val := fv.Interface()
		fields = append(fields, Field{Name: p.name, Kind: kindOf(val), Value: derefScalar(val)})
	}

	return fields, nil
}

func describeMap(v reflect.Value) ([]Field, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, errors.Wrapf(ErrReflection, "map with %s keys is not record-shaped", v.Type().Key())
	}

	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		val := v.MapIndex(k).Interface()
		fields = append(fields, Field{Name: k.String(), Kind: kindOf(val), Value: derefScalar(val)})
	}

	return fields, nil
}

// planFor computes the field plan of a struct type once and caches it.
func planFor(t reflect.Type) ([]fieldPlan, error) {
	if cached, ok := fieldPlans.Load(t); ok {
		return cached.([]fieldPlan), nil
	}

	plans, err := buildPlan(t, nil)
	if err != nil {
		return nil, err
	}

	actual, _ := fieldPlans.LoadOrStore(t, plans)
	return actual.([]fieldPlan), nil
}

func buildPlan(t reflect.Type, parent []int) ([]fieldPlan, error) {
	var plans []fieldPlan
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue
		}

		name, omitEmpty, inline, skip := parseBSONTag(field)
		if skip {
			continue
		}

		index := append(append([]int{}, parent...), i)
		if inline {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}

			if ft.Kind() != reflect.Struct {
				return nil, errors.Wrapf(ErrReflection, "inline field %s.%s must be a struct", t.Name(), field.Name)
			}

			sub, err := buildPlan(ft, index)
			if err != nil {
				return nil, err
			}

			plans = append(plans, sub...)
			continue
		}

		if field.PkgPath != "" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
			return nil, errors.Wrapf(ErrReflection, "field %s.%s has unsupported kind %s", t.Name(), field.Name, field.Type.Kind())
		}

		plans = append(plans, fieldPlan{index: index, name: name, omitEmpty: omitEmpty})
	}

	return plans, nil
}

// parseBSONTag reads a bson struct tag the way the driver's default struct
// codec does: an empty name means the lower-cased Go name.
func parseBSONTag(field reflect.StructField) (name string, omitEmpty bool, inline bool, skip bool) {
	tag, ok := field.Tag.Lookup("bson")
	if ok && tag == "-" {
		skip = true
		return
	}

	tagArr := strings.Split(tag, ",")
	name = strings.TrimSpace(tagArr[0])
	for _, opt := range tagArr[1:] {
		switch strings.TrimSpace(opt) {
		case "omitempty":
			omitEmpty = true
		case "inline":
			inline = true
		}
	}

	if name == "" {
		name = strings.ToLower(field.Name)
	}

	return
}

// fieldByIndex walks an index path, stopping at nil embedded pointers.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	return v, true
}

// kindOf classifies a runtime value.
func kindOf(value any) FieldKind {
	if value == nil {
		return KindScalar
	}

	if _, ok := value.(Describer); ok {
		return KindObject
	}

	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindScalar
		}
		return KindCollection
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Struct:
		if !isScalarStruct(t) {
			return KindObject
		}
	}

	return KindScalar
}

func isScalarStruct(t reflect.Type) bool {
	if t == timeType {
		return true
	}

	pt := reflect.PtrTo(t)
	for _, m := range []reflect.Type{bsonMarshalerType, bsonValueMarshaler} {
		if t.Implements(m) || pt.Implements(m) {
			return true
		}
	}

	if t.Implements(describerType) || pt.Implements(describerType) {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath == "" {
			return false
		}
	}

	return true
}

// isAbsent reports a nil interface or a nil pointer, slice, map or interface.
func isAbsent(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return v.IsNil()
	}

	return false
}

// derefScalar unwraps pointers to scalar values so that operations carry the
// plain value.
func derefScalar(value any) any {
	if isAbsent(value) || kindOf(value) != KindScalar {
		return value
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	return v.Interface()
}

// isEmptyValue reports whether a scalar's string form is empty.
func isEmptyValue(value any) (empty bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrReflection, "cannot stringify %T: %v", value, r)
		}
	}()

	switch s := value.(type) {
	case string:
		return s == "", nil
	case fmt.Stringer:
		return s.String() == "", nil
	}

	return fmt.Sprint(value) == "", nil
}
