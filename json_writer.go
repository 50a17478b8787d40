package dcf

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedObject writes a JSON object whose keys keep the order they are added in.
// The zero value is an empty object.
type orderedObject struct {
	buf bytes.Buffer
	err error
}

// Field adds key with the JSON encoding of value. The first encoding error is kept
// and returned by MarshalJSON.
func (o *orderedObject) Field(key string, value any) {
	if o.err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("field %q: %w", key, err)
		return
	}
	if o.buf.Len() > 0 {
		o.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	o.buf.Write(k)
	o.buf.WriteByte(':')
	o.buf.Write(data)
}

// FieldIf adds key only when cond holds.
func (o *orderedObject) FieldIf(cond bool, key string, value any) {
	if cond {
		o.Field(key, value)
	}
}

// MarshalJSON returns the object.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	out := make([]byte, 0, o.buf.Len()+2)
	out = append(out, '{')
	out = append(out, o.buf.Bytes()...)
	return append(out, '}'), nil
}
