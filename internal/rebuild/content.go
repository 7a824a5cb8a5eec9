package rebuild

import (
	"strings"

	"github.com/bnema/chat-distiller/internal/jsonv"
)

type contentShape uint8

const (
	shapeEmpty contentShape = iota
	shapeText
	shapeParts
	shapeTextField
	shapeList
	shapeOther
)

// content is the union of message content shapes seen in share payloads: a plain
// string, {"parts": [...]}, {"text": "..."}, a bare list, or anything else.
type content struct {
	shape contentShape
	text  string
	items []jsonv.Value
	raw   jsonv.Value
}

func classifyContent(v jsonv.Value) content {
	switch v.Kind() {
	case jsonv.KindNull:
		return content{shape: shapeEmpty}
	case jsonv.KindString:
		s, _ := v.Str()
		return content{shape: shapeText, text: s}
	case jsonv.KindArray:
		return content{shape: shapeList, items: v.Items()}
	case jsonv.KindObject:
		if parts, ok := v.Get("parts"); ok && parts.IsArray() {
			return content{shape: shapeParts, items: parts.Items()}
		}
		if text, ok := v.Get("text"); ok {
			if s, ok := text.Str(); ok {
				return content{shape: shapeTextField, text: s}
			}
		}
	}

	return content{shape: shapeOther, raw: v}
}

// flatten renders the content as plain text. List items and parts are concatenated
// without a separator; nulls are dropped and other values are rendered as JSON.
func (c content) flatten() string {
	switch c.shape {
	case shapeEmpty:
		return ""
	case shapeText, shapeTextField:
		return c.text
	case shapeParts, shapeList:
		var b strings.Builder
		for _, item := range c.items {
			if item.IsNull() {
				continue
			}
			b.WriteString(item.Text())
		}
		return b.String()
	default:
		return c.raw.Text()
	}
}

// contentType returns the content_type tag of object-shaped content.
func contentType(v jsonv.Value) string {
	tag, ok := v.Get("content_type")
	if !ok {
		return ""
	}
	s, _ := tag.Str()
	return s
}
