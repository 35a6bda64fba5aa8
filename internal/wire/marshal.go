package wire

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// fieldTag parses the options carried by a struct's `mc` tag. This
// mirrors the teacher's reflection-driven field codec, with one
// addition: `maxlen:N`, which sets BoundedString.MaxLength so each
// packet can express the per-field string bounds called out in §4.B
// (255 for server_addr, 20 for server_id, 16 for username/locale, ...).
type fieldTag struct {
	Skip    bool
	IfField string
	IfValue string
	MaxLen  int
	Raw     string
}

// parseFieldTag supports:
//   - mc:"-"                      skip field
//   - mc:"if:Field"                present only if Field is zero
//   - mc:"if:Field,value:X"        present only if Field == X
//   - mc:"maxlen:255"              bound a BoundedString field
func parseFieldTag(tag string) fieldTag {
	ft := fieldTag{Raw: tag}
	if tag == "" {
		return ft
	}
	if tag == "-" {
		ft.Skip = true
		return ft
	}
	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if after, ok := strings.CutPrefix(part, "if:"); ok {
			ft.IfField = after
		}
		if after, ok := strings.CutPrefix(part, "value:"); ok {
			ft.IfValue = after
		}
		if after, ok := strings.CutPrefix(part, "maxlen:"); ok {
			if n, err := strconv.Atoi(after); err == nil {
				ft.MaxLen = n
			}
		}
	}
	return ft
}

// MarshalStruct serializes every exported field of v (a struct or
// pointer to struct) in declaration order, honoring `mc` tags.
func MarshalStruct(v any) (ByteArray, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("wire: cannot marshal nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("wire: can only marshal structs, got %v", val.Kind())
	}
	return marshalStructValue(val)
}

func marshalStructValue(val reflect.Value) (ByteArray, error) {
	var out ByteArray
	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		sf := typ.Field(i)
		if !field.CanInterface() {
			continue
		}
		tag := parseFieldTag(sf.Tag.Get("mc"))
		if tag.Skip {
			continue
		}
		applyMaxLen(field, tag)
		if tag.IfField != "" {
			cond := val.FieldByName(tag.IfField)
			if cond.IsValid() && !checkCondition(cond, tag.IfValue) {
				continue
			}
		}
		bytes, err := marshalField(field)
		if err != nil {
			return nil, fmt.Errorf("wire: marshaling field %s: %w", sf.Name, err)
		}
		out = append(out, bytes...)
	}
	return out, nil
}

func applyMaxLen(field reflect.Value, tag fieldTag) {
	if tag.MaxLen == 0 || field.Kind() != reflect.Struct {
		return
	}
	if field.Type() != reflect.TypeOf(BoundedString{}) {
		return
	}
	if field.CanSet() {
		field.FieldByName("MaxLength").SetInt(int64(tag.MaxLen))
	}
}

func marshalField(field reflect.Value) (ByteArray, error) {
	if field.CanAddr() {
		if m, ok := field.Addr().Interface().(marshaler); ok {
			return m.ToBytes()
		}
	}
	if m, ok := field.Interface().(marshaler); ok {
		return m.ToBytes()
	}

	switch field.Kind() {
	case reflect.Struct:
		return marshalStructValue(field)
	case reflect.Slice:
		length := field.Len()
		lengthBytes, err := VarInt(length).ToBytes()
		if err != nil {
			return nil, err
		}
		out := ByteArray(lengthBytes)
		for j := range length {
			b, err := marshalField(field.Index(j))
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	case reflect.Array:
		var out ByteArray
		for j := range field.Len() {
			b, err := marshalField(field.Index(j))
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("wire: unsupported field type %v", field.Type())
	}
}

// UnmarshalStruct decodes data into v (a pointer to struct), honoring
// `mc` tags, and returns the number of bytes consumed.
func UnmarshalStruct(data ByteArray, v any) (int, error) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return 0, fmt.Errorf("wire: unmarshal requires a non-nil pointer")
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return 0, fmt.Errorf("wire: can only unmarshal into structs, got %v", elem.Kind())
	}
	return unmarshalStructValue(elem, data)
}

func unmarshalStructValue(val reflect.Value, data ByteArray) (int, error) {
	typ := val.Type()
	offset := 0
	for i := range val.NumField() {
		field := val.Field(i)
		sf := typ.Field(i)
		if !field.CanSet() {
			continue
		}
		tag := parseFieldTag(sf.Tag.Get("mc"))
		if tag.Skip {
			continue
		}
		applyMaxLen(field, tag)

		if tag.IfField != "" {
			cond := val.FieldByName(tag.IfField)
			present := !cond.IsValid() || checkCondition(cond, tag.IfValue)
			if !present {
				setOptionalAbsent(field)
				continue
			}
		}

		n, err := unmarshalField(field, data[offset:])
		if err != nil {
			return offset, fmt.Errorf("wire: unmarshaling field %s (offset %d): %w", sf.Name, offset, err)
		}
		offset += n
	}
	return offset, nil
}

func setOptionalAbsent(field reflect.Value) {
	if field.Kind() != reflect.Struct {
		return
	}
	present := field.FieldByName("Present")
	if present.IsValid() && present.CanSet() && present.Kind() == reflect.Bool {
		present.SetBool(false)
	}
}

func checkCondition(cond reflect.Value, expected string) bool {
	if expected == "" {
		switch cond.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cond.Int() == 0
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return cond.Uint() == 0
		case reflect.Bool:
			return !cond.Bool()
		default:
			if vi, ok := cond.Interface().(VarInt); ok {
				return vi == 0
			}
			return cond.IsZero()
		}
	}
	switch cond.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, err := strconv.ParseInt(expected, 10, 64); err == nil {
			return cond.Int() == v
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v, err := strconv.ParseUint(expected, 10, 64); err == nil {
			return cond.Uint() == v
		}
	case reflect.Bool:
		if v, err := strconv.ParseBool(expected); err == nil {
			return cond.Bool() == v
		}
	case reflect.String:
		return cond.String() == expected
	default:
		if vi, ok := cond.Interface().(VarInt); ok {
			if v, err := strconv.ParseInt(expected, 10, 32); err == nil {
				return int(vi) == int(v)
			}
		}
	}
	return false
}

func unmarshalField(field reflect.Value, data ByteArray) (int, error) {
	if field.CanAddr() {
		if u, ok := field.Addr().Interface().(unmarshaler); ok {
			return u.FromBytes(data)
		}
	}

	switch field.Kind() {
	case reflect.Struct:
		return unmarshalStructValue(field, data)
	case reflect.Slice:
		var length VarInt
		n, err := length.FromBytes(data)
		if err != nil {
			return 0, err
		}
		offset := n
		slice := reflect.MakeSlice(field.Type(), int(length), int(length))
		for j := range int(length) {
			consumed, err := unmarshalField(slice.Index(j), data[offset:])
			if err != nil {
				return offset, err
			}
			offset += consumed
		}
		field.Set(slice)
		return offset, nil
	case reflect.Array:
		offset := 0
		for j := range field.Len() {
			consumed, err := unmarshalField(field.Index(j), data[offset:])
			if err != nil {
				return offset, err
			}
			offset += consumed
		}
		return offset, nil
	default:
		return 0, fmt.Errorf("wire: unsupported field type %v", field.Type())
	}
}
