package jsonv

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// MarshalJSON encodes v compactly, keeping object member order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.Bytes(), nil
}

// Text renders v as plain text: strings verbatim, everything else as compact JSON.
func (v Value) Text() string {
	if s, ok := v.Str(); ok {
		return s
	}
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.String()
}

func writeValue(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.raw != "" {
			buf.WriteString(v.raw)
			return
		}
		buf.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindString:
		writeString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, item)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			writeValue(buf, m.Value)
		}
		buf.WriteByte('}')
	}
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		buf.WriteString(strconv.Quote(s))
		return
	}
	buf.WriteString(strings.TrimSuffix(tmp.String(), "\n"))
}
