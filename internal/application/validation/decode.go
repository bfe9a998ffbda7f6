package validation

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/sangkips/garage-pos-api/pkg/apperror"
)

var (
	jsonUnmarshaler = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// DecodeJSON decodes data into dst, which must be a non-nil pointer. Values
// whose JSON type does not fit their field are left at the zero value and
// returned as field errors, so decoding continues past them. Malformed JSON
// and a body of the wrong shape are returned as err.
func DecodeJSON(data []byte, dst any) ([]apperror.FieldError, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, errors.New("decode target must be a non-nil pointer")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}

	var fieldErrs []apperror.FieldError
	target := rv.Type().Elem()
	tree, ok := prune(tree, target, "", &fieldErrs)
	if !ok {
		return nil, fmt.Errorf("body %s", expected(target))
	}

	clean, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(clean, dst); err != nil {
		return nil, err
	}
	return fieldErrs, nil
}

// Merge combines decode errors with rule violations of the same payload. A
// field that failed to decode is reported once, with its decode error, in the
// position its rule violation would have taken.
func Merge(decodeErrs, ruleErrs []apperror.FieldError) []apperror.FieldError {
	byField := make(map[string]apperror.FieldError, len(decodeErrs))
	for _, fe := range decodeErrs {
		byField[fe.Field] = fe
	}
	reported := make(map[string]bool, len(decodeErrs))

	out := make([]apperror.FieldError, 0, len(decodeErrs)+len(ruleErrs))
	for _, fe := range ruleErrs {
		de, ok := byField[fe.Field]
		if !ok {
			out = append(out, fe)
			continue
		}
		if !reported[fe.Field] {
			out = append(out, de)
			reported[fe.Field] = true
		}
	}
	for _, fe := range decodeErrs {
		if !reported[fe.Field] {
			out = append(out, fe)
			reported[fe.Field] = true
		}
	}
	return out
}

// prune drops values that cannot be decoded into t and records them. It
// reports false when v itself does not fit t.
func prune(v any, t reflect.Type, path string, errs *[]apperror.FieldError) (any, bool) {
	if v == nil {
		return nil, true
	}
	if t.Implements(jsonUnmarshaler) || reflect.PointerTo(t).Implements(jsonUnmarshaler) {
		return v, true
	}
	if t.Implements(textUnmarshaler) || reflect.PointerTo(t).Implements(textUnmarshaler) {
		_, ok := v.(string)
		return v, ok
	}

	switch t.Kind() {
	case reflect.Pointer:
		return prune(v, t.Elem(), path, errs)
	case reflect.Interface:
		return v, true
	case reflect.String:
		_, ok := v.(string)
		return v, ok
	case reflect.Bool:
		_, ok := v.(bool)
		return v, ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(json.Number)
		if !ok {
			return v, false
		}
		_, err := strconv.ParseInt(n.String(), 10, t.Bits())
		return v, err == nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(json.Number)
		if !ok {
			return v, false
		}
		_, err := strconv.ParseUint(n.String(), 10, t.Bits())
		return v, err == nil
	case reflect.Float32, reflect.Float64:
		n, ok := v.(json.Number)
		if !ok {
			return v, false
		}
		_, err := strconv.ParseFloat(n.String(), t.Bits())
		return v, err == nil
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			_, ok := v.(string)
			return v, ok
		}
		arr, ok := v.([]any)
		if !ok {
			return v, false
		}
		for i, el := range arr {
			elPath := fmt.Sprintf("%s[%d]", path, i)
			pv, ok := prune(el, t.Elem(), elPath, errs)
			if !ok {
				record(errs, elPath, t.Elem())
				pv = nil
			}
			arr[i] = pv
		}
		return arr, true
	case reflect.Map:
		_, ok := v.(map[string]any)
		return v, ok
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return v, false
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, skip := jsonName(f)
			if skip {
				continue
			}
			key, found := lookupKey(obj, name)
			if !found {
				continue
			}
			fieldPath := name
			if path != "" {
				fieldPath = path + "." + name
			}
			pv, ok := prune(obj[key], f.Type, fieldPath, errs)
			if !ok {
				record(errs, fieldPath, f.Type)
				delete(obj, key)
				continue
			}
			obj[key] = pv
		}
		return obj, true
	}
	return v, true
}

func record(errs *[]apperror.FieldError, path string, t reflect.Type) {
	*errs = append(*errs, apperror.FieldError{Field: path, Message: expected(t)})
}

func jsonName(f reflect.StructField) (string, bool) {
	if !f.IsExported() || f.Anonymous {
		return "", true
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "" {
		name = f.Name
	}
	return name, false
}

// lookupKey matches an object key the way encoding/json does: exact first,
// then case-insensitive.
func lookupKey(obj map[string]any, name string) (string, bool) {
	if _, ok := obj[name]; ok {
		return name, true
	}
	for k := range obj {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

func expected(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be true or false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Slice, reflect.Array:
		return "must be an array"
	case reflect.Struct, reflect.Map:
		return "must be an object"
	default:
		return "has the wrong type"
	}
}
