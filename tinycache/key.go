package tinycache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits the segments of a cache key. The first segment is
// always the operation name, so per-operation policy can match on it.
const KeySeparator = "::"

// MaxKeyLength bounds generated keys. Longer keys are collapsed to the
// operation prefix plus an xxhash digest of the full key, keeping the
// policy-relevant prefix while staying storable.
const MaxKeyLength = 512

// Keyer derives a deterministic cache key from an operation name and its
// arguments. Identical arguments must always produce the same key; the
// framework does not check this and silently caches wrong values when it is
// violated.
type Keyer interface {
	Key(op string, args ...any) string
}

// defaultKeyer serializes arguments with reflection, sorting map keys and
// walking slices and structs so keys are stable across runs. Values that
// resist reflection fall back to JSON.
type defaultKeyer struct{}

// NewDefaultKeyer returns the reflection-based Keyer.
func NewDefaultKeyer() Keyer {
	return &defaultKeyer{}
}

func (k *defaultKeyer) Key(op string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, arg := range args {
		parts = append(parts, k.encode(arg))
	}
	key := strings.Join(parts, KeySeparator)
	if len(key) <= MaxKeyLength {
		return key
	}
	return op + KeySeparator + "xx" + strconv.FormatUint(xxhash.Sum64String(key), 16)
}

func (k *defaultKeyer) encode(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return k.encode(rv.Elem().Interface())

	case reflect.Func, reflect.Chan:
		// Pointer identity is the best stability we get; stable within a
		// process, never across restarts.
		return fmt.Sprintf("%s:%p", rv.Kind(), v)

	case reflect.Slice:
		if rv.IsNil() {
			return "nil"
		}
		return k.encodeList(rv)

	case reflect.Array:
		return k.encodeList(rv)

	case reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		return k.encodeMap(rv)

	case reflect.Struct:
		return k.encodeStruct(rv)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return fmt.Sprintf("%v", v)
	}

	if data, err := json.Marshal(v); err == nil {
		return "json:" + string(data)
	}
	return "opaque:" + rv.Type().String()
}

func (k *defaultKeyer) encodeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = k.encode(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// encodeMap emits key=value pairs sorted by encoded key so iteration order
// never leaks into the cache key.
func (k *defaultKeyer) encodeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, k.encode(iter.Key().Interface())+"="+k.encode(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

func (k *defaultKeyer) encodeStruct(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+k.encode(rv.Field(i).Interface()))
	}
	return rt.Name() + "{" + strings.Join(parts, ",") + "}"
}
