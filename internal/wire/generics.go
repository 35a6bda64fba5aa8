package wire

import (
	"fmt"
	"reflect"
)

type marshaler interface {
	ToBytes() (ByteArray, error)
}

type unmarshaler interface {
	FromBytes(ByteArray) (int, error)
}

// Optional is a field that is present or absent by external context
// (an `mc:"if:Field"` tag), not by a leading boolean. See
// PrefixedOptional for the bool-prefixed variant used by §4.B's
// "Optional-via-bool".
type Optional[T any] struct {
	Present bool
	Value   T
}

func (o Optional[T]) ToBytes() (ByteArray, error) {
	if !o.Present {
		return ByteArray{}, nil
	}
	if m, ok := any(o.Value).(marshaler); ok {
		return m.ToBytes()
	}
	return nil, fmt.Errorf("wire: type %T does not implement ToBytes", o.Value)
}

func (o *Optional[T]) FromBytes(data ByteArray) (int, error) {
	o.Present = true
	if u, ok := any(&o.Value).(unmarshaler); ok {
		return u.FromBytes(data)
	}
	return 0, fmt.Errorf("wire: type %T does not implement FromBytes", o.Value)
}

// PrefixedOptional is a boolean presence flag followed, if true, by
// the value — the "Optional-via-bool" field shape from §4.B.
type PrefixedOptional[T any] struct {
	Present bool
	Value   T
}

func (p PrefixedOptional[T]) ToBytes() (ByteArray, error) {
	out, err := Boolean(p.Present).ToBytes()
	if err != nil {
		return nil, err
	}
	if !p.Present {
		return out, nil
	}
	m, ok := any(p.Value).(marshaler)
	if !ok {
		return nil, fmt.Errorf("wire: type %T does not implement ToBytes", p.Value)
	}
	valueBytes, err := m.ToBytes()
	if err != nil {
		return nil, err
	}
	return append(out, valueBytes...), nil
}

func (p *PrefixedOptional[T]) FromBytes(data ByteArray) (int, error) {
	var present Boolean
	n, err := present.FromBytes(data)
	if err != nil {
		return 0, err
	}
	p.Present = bool(present)
	if !p.Present {
		return n, nil
	}
	u, ok := any(&p.Value).(unmarshaler)
	if !ok {
		return 0, fmt.Errorf("wire: type %T does not implement FromBytes", p.Value)
	}
	m, err := u.FromBytes(data[n:])
	if err != nil {
		return 0, err
	}
	return n + m, nil
}

// PrefixedArray is a VarInt-length-prefixed homogeneous array.
type PrefixedArray[T any] []T

func (p PrefixedArray[T]) ToBytes() (ByteArray, error) {
	lengthBytes, err := VarInt(len(p)).ToBytes()
	if err != nil {
		return nil, err
	}
	out := ByteArray(lengthBytes)
	for i, item := range p {
		m, ok := any(item).(marshaler)
		if !ok {
			return nil, fmt.Errorf("wire: array element %d of type %T does not implement ToBytes", i, item)
		}
		itemBytes, err := m.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("wire: marshaling array element %d: %w", i, err)
		}
		out = append(out, itemBytes...)
	}
	return out, nil
}

func (p *PrefixedArray[T]) FromBytes(data ByteArray) (int, error) {
	var length VarInt
	offset, err := length.FromBytes(data)
	if err != nil {
		return 0, err
	}
	if length < 0 {
		return 0, fmt.Errorf("wire: negative array length")
	}
	out := make(PrefixedArray[T], length)
	for i := range int(length) {
		elem := reflect.ValueOf(&out[i])
		u, ok := elem.Interface().(unmarshaler)
		if !ok {
			return 0, fmt.Errorf("wire: array element %d of type %T does not implement FromBytes", i, out[i])
		}
		n, err := u.FromBytes(data[offset:])
		if err != nil {
			return 0, fmt.Errorf("wire: unmarshaling array element %d: %w", i, err)
		}
		offset += n
	}
	*p = out
	return offset, nil
}
