package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/jsonv"
	"golang.org/x/net/html"
)

const (
	nextDataID = "__NEXT_DATA__"

	mappingToken     = "mapping"
	currentNodeToken = "current_node"
	linearToken      = "linear_conversation"
)

var streamEnqueuePattern = regexp.MustCompile(`(?s)streamController\.enqueue\("((?:\\.|[^\\"])*)"\)`)

type Strategy string

const (
	StrategyNextData Strategy = "next_data"
	StrategyStream   Strategy = "stream"
)

// Payload is the decoded embedded data of a share page.
type Payload struct {
	Value    jsonv.Value
	Strategy Strategy
}

// LocatePayload finds the embedded conversation data in page markup. The structured
// __NEXT_DATA__ script is tried first; streamed enqueue chunks are only scanned when
// that script is missing or does not hold valid JSON.
func LocatePayload(page string) (Payload, error) {
	if strings.TrimSpace(page) == "" {
		return Payload{}, fmt.Errorf("%w: empty HTML, cannot extract embedded JSON", domain.ErrExtraction)
	}

	if v, err := locateNextData(page); err == nil {
		return Payload{Value: v, Strategy: StrategyNextData}, nil
	}

	v, err := locateStreamState(page)
	if err != nil {
		return Payload{}, err
	}

	return Payload{Value: v, Strategy: StrategyStream}, nil
}

func locateNextData(page string) (jsonv.Value, error) {
	body, ok := nextDataScript(page)
	if !ok {
		return jsonv.Value{}, fmt.Errorf("%w: could not find %s JSON in HTML", domain.ErrExtraction, nextDataID)
	}

	v, err := jsonv.Parse(strings.TrimSpace(body))
	if err != nil {
		return jsonv.Value{}, fmt.Errorf("%w: failed to parse %s JSON: %w", domain.ErrExtraction, nextDataID, err)
	}

	return v, nil
}

// nextDataScript returns the raw body of the first <script id="__NEXT_DATA__">.
func nextDataScript(page string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "script" || !hasAttr || !hasAttrValue(z, "id", nextDataID) {
				continue
			}
			if z.Next() != html.TextToken {
				return "", true
			}
			return string(z.Text()), true
		}
	}
}

func hasAttrValue(z *html.Tokenizer, key, want string) bool {
	for {
		k, v, more := z.TagAttr()
		if string(k) == key && string(v) == want {
			return true
		}
		if !more {
			return false
		}
	}
}

func locateStreamState(page string) (jsonv.Value, error) {
	matches := streamEnqueuePattern.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		return jsonv.Value{}, fmt.Errorf("%w: could not find embedded React Router stream data in HTML", domain.ErrExtraction)
	}

	for _, m := range matches {
		if state, ok := stateFromChunk(m[1]); ok {
			return state, nil
		}
	}

	return jsonv.Value{}, fmt.Errorf("%w: found React Router stream chunks, but could not parse conversation state from them", domain.ErrExtraction)
}

// stateFromChunk decodes one enqueue literal into {"mapping", "current_node"}.
// Chunks that do not carry a usable conversation state are rejected without error.
func stateFromChunk(literal string) (jsonv.Value, bool) {
	payload, err := jsonv.Unquote(literal)
	if err != nil {
		return jsonv.Value{}, false
	}
	if !strings.Contains(payload, mappingToken) || !strings.Contains(payload, currentNodeToken) {
		return jsonv.Value{}, false
	}

	payload = stripChunkLabel(strings.TrimSpace(payload))

	arr, err := jsonv.Parse(payload)
	if err != nil || !arr.IsArray() {
		return jsonv.Value{}, false
	}
	table := arr.Items()

	mappingValue, ok := successorOf(table, mappingToken)
	if !ok || !mappingValue.IsObject() {
		return jsonv.Value{}, false
	}
	currentValue, ok := successorOf(table, currentNodeToken)
	if !ok {
		return jsonv.Value{}, false
	}

	mapping := mappingValue.Object()
	if hasPackedKey(mapping) {
		mapping = decodePackedMapping(table, mapping)
	}

	currentNode, _ := DecodePacked(table, currentValue).Str()
	if !mapping.Has(currentNode) {
		if tail, ok := linearTail(table, mapping); ok {
			currentNode = tail
		}
	}

	if mapping.Len() == 0 || currentNode == "" {
		return jsonv.Value{}, false
	}

	state := jsonv.NewObject()
	state.Set(mappingToken, jsonv.FromObject(mapping))
	state.Set(currentNodeToken, jsonv.String(currentNode))
	return jsonv.FromObject(state), true
}

// stripChunkLabel drops a leading "<label>:" frame such as "P21:" before the JSON body.
func stripChunkLabel(payload string) string {
	if payload == "" || payload[0] == '[' {
		return payload
	}
	if _, body, ok := strings.Cut(payload, ":"); ok {
		return strings.TrimLeft(body, " \t\r\n")
	}
	return payload
}

func successorOf(table []jsonv.Value, token string) (jsonv.Value, bool) {
	for i, v := range table {
		if s, ok := v.Str(); ok && s == token {
			if i+1 >= len(table) {
				return jsonv.Value{}, false
			}
			return table[i+1], true
		}
	}
	return jsonv.Value{}, false
}

func hasPackedKey(o *jsonv.Object) bool {
	for _, m := range o.Members() {
		if isPackedKey(m.Key) {
			return true
		}
	}
	return false
}

// linearTail recovers the current node from the linear_conversation id list: the
// last id that is present in the mapping.
func linearTail(table []jsonv.Value, mapping *jsonv.Object) (string, bool) {
	raw, ok := successorOf(table, linearToken)
	if !ok {
		return "", false
	}
	decoded := DecodePacked(table, raw)
	if !decoded.IsArray() {
		return "", false
	}

	ids := decoded.Items()
	for i := len(ids) - 1; i >= 0; i-- {
		if id, ok := ids[i].Str(); ok && mapping.Has(id) {
			return id, true
		}
	}
	return "", false
}
