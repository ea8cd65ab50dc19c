package sharedlog

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fields is the structured metadata attached to a record.
type Fields map[string]any

const (
	maxDepthMarker = "<max depth reached>"
	circularMarker = "<circular reference>"

	reservedPrefix = "fields."
)

// WithStack describes err together with the stack of the caller, for use as the
// "error" field.
func WithStack(err error) Fields {
	if err == nil {
		return nil
	}
	return Fields{FieldMessage: err.Error(), FieldStack: string(debug.Stack())}
}

// merge returns a new Fields holding base overlaid by each of more, in order.
func merge(base Fields, more ...Fields) Fields {
	n := len(base)
	for _, f := range more {
		n += len(f)
	}
	if n == 0 {
		return nil
	}
	out := make(Fields, n)
	for k, v := range base {
		out[k] = v
	}
	for _, f := range more {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// sanitizeFields copies f into plain maps, slices and scalars so that the engine can
// encode it. Containers nested deeper than maxFieldDepth are replaced by a marker, as
// are references back to a value already on the current path. Top-level keys that name
// the record's own fields are moved under "fields.".
func sanitizeFields(f Fields) map[string]any {
	if len(f) == 0 {
		return nil
	}
	p := &printer{onPath: make(map[uintptr]bool)}
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[fieldKey(k)] = p.value(v, 1)
	}
	return out
}

func fieldKey(k string) string {
	switch k {
	case zerolog.LevelFieldName, zerolog.TimestampFieldName, zerolog.MessageFieldName, FieldChain:
		return reservedPrefix + k
	}
	return k
}

type printer struct {
	onPath map[uintptr]bool
}

func (p *printer) value(v any, depth int) any {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if val.IsNil() {
			return nil
		}
	default:
	}

	switch t := v.(type) {
	case string, bool, int64, uint64, float64:
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return uint64(t)
	case uint8:
		return uint64(t)
	case uint16:
		return uint64(t)
	case uint32:
		return uint64(t)
	case float32:
		return float64(t)
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case time.Duration:
		return t.String()
	case error:
		return map[string]any{FieldMessage: t.Error()}
	case fmt.Stringer:
		return t.String()
	}

	if depth > maxFieldDepth {
		return maxDepthMarker
	}

	// unwrap pointers, leaving each one marked while its target is walked
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		if val.Kind() == reflect.Pointer {
			ptr := val.Pointer()
			if p.onPath[ptr] {
				return circularMarker
			}
			p.onPath[ptr] = true
			defer delete(p.onPath, ptr)
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		ptr := val.Pointer()
		if p.onPath[ptr] {
			return circularMarker
		}
		p.onPath[ptr] = true
		defer delete(p.onPath, ptr)

		out := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			out[key] = p.child(iter.Value(), depth)
		}
		return out

	case reflect.Slice, reflect.Array:
		out := make([]any, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			out = append(out, p.child(val.Index(i), depth))
		}
		return out

	case reflect.Struct:
		typ := val.Type()
		out := make(map[string]any, val.NumField())
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag, ok := field.Tag.Lookup("json"); ok {
				tagName, _, _ := strings.Cut(tag, ",")
				if tagName == "-" {
					continue
				}
				if tagName != emptyString {
					name = tagName
				}
			}
			out[name] = p.child(val.Field(i), depth)
		}
		return out

	case reflect.String:
		return val.String()
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return val.Uint()
	case reflect.Float32, reflect.Float64:
		return val.Float()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (p *printer) child(v reflect.Value, depth int) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return p.value(v.Interface(), depth+1)
}
