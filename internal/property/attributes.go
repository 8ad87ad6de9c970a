package property

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindRaw
)

// Value is one attribute cell. Raw holds JSON objects and arrays verbatim.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	raw  json.RawMessage
}

func Null() Value                      { return Value{} }
func Text(s string) Value              { return Value{kind: KindText, text: s} }
func Number(f float64) Value           { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value                { return Value{kind: KindBool, b: b} }
func Raw(msg json.RawMessage) Value    { return Value{kind: KindRaw, raw: append(json.RawMessage(nil), msg...)} }
func (v Value) Kind() Kind             { return v.kind }
func (v Value) IsNull() bool           { return v.kind == KindNull }
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Present reports whether v counts as a value for lookups: null and blank
// text are absent, 0 and false are present.
func (v Value) Present() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindText:
		return strings.TrimSpace(v.text) != ""
	default:
		return true
	}
}

// String is the display form of v. Numbers use the shortest representation
// and raw values their JSON text.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindRaw:
		var buf bytes.Buffer
		if err := json.Compact(&buf, v.raw); err != nil {
			return string(v.raw)
		}
		return buf.String()
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty attribute value")
	}
	switch data[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '{', '[':
		if !json.Valid(data) {
			return errors.New("invalid JSON attribute value")
		}
		*v = Raw(data)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", data, err)
		}
		*v = Number(f)
	}
	return nil
}

// Attributes is the free-form, insertion-ordered attribute bag of a
// property. The zero value is empty and ready to use.
type Attributes struct {
	keys   []string
	values map[string]Value
}

func (a *Attributes) Len() int { return len(a.keys) }

// Keys returns the keys in the order they were first set.
func (a *Attributes) Keys() []string {
	return append([]string(nil), a.keys...)
}

func (a *Attributes) Get(key string) (Value, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a *Attributes) Set(key string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

func (a *Attributes) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Merge applies patch in its own key order. A null value in the patch
// removes the key.
func (a *Attributes) Merge(patch Attributes) {
	for _, k := range patch.keys {
		v := patch.values[k]
		if v.IsNull() {
			a.Delete(k)
			continue
		}
		a.Set(k, v)
	}
}

func (a *Attributes) Clone() Attributes {
	out := Attributes{keys: a.Keys(), values: make(map[string]Value, len(a.values))}
	for k, v := range a.values {
		out.values[k] = v
	}
	return out
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := a.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the document. A repeated key keeps
// its first position and its last value.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = Attributes{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("attributes must be a JSON object")
	}

	out := Attributes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("attribute key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// Scan reads the json column.
func (a *Attributes) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		return a.UnmarshalJSON(s)
	case string:
		return a.UnmarshalJSON([]byte(s))
	default:
		return fmt.Errorf("cannot scan %T into Attributes", src)
	}
}

// Value writes the json column.
func (a Attributes) Value() (driver.Value, error) {
	b, err := a.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
