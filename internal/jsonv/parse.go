package jsonv

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid json")

// Parse decodes a complete JSON document.
func Parse(raw string) (Value, error) {
	if !gjson.Valid(raw) {
		return Value{}, ErrInvalidJSON
	}

	return fromResult(gjson.Parse(raw)), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) Value {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Unquote decodes the body of a double-quoted JSON string literal, without the quotes.
func Unquote(body string) (string, error) {
	quoted := `"` + body + `"`
	if !gjson.Valid(quoted) {
		return "", ErrInvalidJSON
	}

	return gjson.Parse(quoted).String(), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Value{}
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Value{kind: KindNumber, num: r.Num, raw: strings.TrimSpace(r.Raw)}
	case gjson.String:
		return String(r.Str)
	}

	if r.IsArray() {
		items := make([]Value, 0)
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromResult(item))
			return true
		})
		return Array(items...)
	}

	if r.IsObject() {
		obj := NewObject()
		r.ForEach(func(key, item gjson.Result) bool {
			obj.Set(key.String(), fromResult(item))
			return true
		})
		return FromObject(obj)
	}

	return Value{}
}

func parseIntLiteral(raw string) (int64, bool) {
	if raw == "" || strings.ContainsAny(raw, ".eE") {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
