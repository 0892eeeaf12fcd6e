package docstore

import (
	"reflect"

	"github.com/iancoleman/strcase"
)

// Model lets a record type choose the collection it is stored in.
type Model interface {
	CollectionName() string
}

// CollectionNameOf returns the Model collection name of T, or the snake case
// form of its type name.
func CollectionNameOf[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if m, ok := reflect.New(t).Interface().(Model); ok {
		return m.CollectionName()
	}

	return strcase.ToSnake(t.Name())
}
