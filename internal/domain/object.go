package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Kind enumerates the JSON shapes a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindList
)

// Value is a tagged representation of one decoded JSON value. The zero Value
// is null. Anything that is not a JSON object, array, or scalar decodes to
// null; callers are expected to tolerate that.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	obj  *Object
	list []Value
}

func Null() Value                     { return Value{} }
func BoolValue(b bool) Value          { return Value{kind: KindBool, b: b} }
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }
func StringValue(s string) Value      { return Value{kind: KindString, str: s} }
func ObjectValue(o *Object) Value     { return Value{kind: KindObject, obj: o} }
func ListValue(items []Value) Value   { return Value{kind: KindList, list: items} }

func IntValue(i int64) Value {
	return NumberValue(json.Number(fmt.Sprintf("%d", i)))
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) Number() (json.Number, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := v.num.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) Object() (*Object, bool) {
	return v.obj, v.kind == KindObject
}

func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Object is an insertion-ordered mapping from field name to Value, decoded
// from one JSON object. Setting an existing key replaces the value but keeps
// the key's original position.
type Object struct {
	keys   []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

func (o *Object) Len() int { return len(o.keys) }

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Set(key string, v Value) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

func (o *Object) Str(key string) (string, bool) {
	v, ok := o.fields[key]
	if !ok {
		return "", false
	}
	return v.Str()
}

func (o *Object) Int64(key string) (int64, bool) {
	v, ok := o.fields[key]
	if !ok {
		return 0, false
	}
	return v.Int64()
}

func (o *Object) Bool(key string) (bool, bool) {
	v, ok := o.fields[key]
	if !ok {
		return false, false
	}
	return v.Bool()
}

func (o *Object) ObjectOf(key string) (*Object, bool) {
	v, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	return v.Object()
}

func (o *Object) ListOf(key string) ([]Value, bool) {
	v, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	return v.List()
}

// ParseJSON decodes r into a Value, converting nested objects at every depth
// and preserving object key order. Numbers keep their literal form.
func ParseJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return parseValue(dec)
}

// ParseJSONBytes is ParseJSON over an in-memory payload.
func ParseJSONBytes(data []byte) (Value, error) {
	return ParseJSON(bytes.NewReader(data))
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseList(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	}
	return Null(), nil
}

func parseObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected object key token %v", keyTok)
		}
		v, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return ObjectValue(obj), nil
}

func parseList(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return ListValue(items), nil
}

// MarshalJSON serializes the value back to the equivalent JSON, emitting
// object fields in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindString:
		return json.Marshal(v.str)
	case KindObject:
		return v.obj.MarshalJSON()
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encoded, err := o.fields[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
