package efa

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Params are the flat wire parameters sent to the EFA endpoints.
// Values may be scalars or slices; nil values are never sent.
type Params map[string]interface{}

// Merge returns a new Params holding p overlaid with override. Keys present in
// override always win, including when their value is nil.
func (p Params) Merge(override Params) Params {
	merged := make(Params, len(p)+len(override))

	for key, value := range p {
		merged[key] = value
	}
	for key, value := range override {
		merged[key] = value
	}

	return merged
}

// Clone returns a shallow copy of p
func (p Params) Clone() Params {
	return Params{}.Merge(p)
}

// Encode renders the parameters as a query string with a leading '?', or an
// empty string when nothing is left after dropping nil values.
// Keys are sorted so the same input always produces the same string.
func (p Params) Encode() string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pairs []string

	for _, key := range keys {
		for _, value := range expandValue(p[key]) {
			pairs = append(pairs, escapeComponent(key)+"="+escapeComponent(value))
		}
	}

	if len(pairs) == 0 {
		return ""
	}

	return "?" + strings.Join(pairs, "&")
}

// BuildQueryString is Params.Encode for plain maps
func BuildQueryString(params map[string]interface{}) string {
	return Params(params).Encode()
}

func expandValue(value interface{}) []string {
	if value == nil {
		return nil
	}

	reflectValue := reflect.ValueOf(value)
	for reflectValue.Kind() == reflect.Pointer || reflectValue.Kind() == reflect.Interface {
		if reflectValue.IsNil() {
			return nil
		}
		reflectValue = reflectValue.Elem()
	}

	switch reflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		if reflectValue.Kind() == reflect.Slice && reflectValue.IsNil() {
			return nil
		}

		values := []string{}
		for i := 0; i < reflectValue.Len(); i++ {
			values = append(values, expandValue(reflectValue.Index(i).Interface())...)
		}
		return values
	default:
		return []string{formatScalar(reflectValue)}
	}
}

func formatScalar(value reflect.Value) string {
	if stringer, ok := value.Interface().(fmt.Stringer); ok {
		return stringer.String()
	}

	switch value.Kind() {
	case reflect.String:
		return value.String()
	case reflect.Bool:
		return strconv.FormatBool(value.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(value.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(value.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(value.Interface())
	}
}

// componentUnescaper reverts QueryEscape for the characters EFA expects unescaped
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( )
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
