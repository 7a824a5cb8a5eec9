package extract

import (
	"strconv"

	"github.com/bnema/chat-distiller/internal/jsonv"
)

// maxPackedDepth bounds recursion into nested values. Values nested
// deeper are returned unresolved.
const maxPackedDepth = 50

// tableKey is an object key parsed once at the boundary: either a plain name or a
// "_<digits>" reference into the packed table.
type tableKey struct {
	name  string
	ref   int
	isRef bool
}

func parseTableKey(key string) tableKey {
	if len(key) < 2 || key[0] != '_' {
		return tableKey{name: key}
	}
	for i := 1; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return tableKey{name: key}
		}
	}
	ref, err := strconv.Atoi(key[1:])
	if err != nil {
		return tableKey{name: key}
	}

	return tableKey{name: key, ref: ref, isRef: true}
}

// resolve returns the key name after table substitution. A reference outside the
// table keeps its literal spelling; a non-string entry is rendered as text.
func (k tableKey) resolve(table []jsonv.Value) string {
	if !k.isRef || k.ref >= len(table) {
		return k.name
	}
	return table[k.ref].Text()
}

func isPackedKey(key string) bool {
	return parseTableKey(key).isRef
}

// tableRef reports whether v is a small non-negative integer indexing into table.
func tableRef(table []jsonv.Value, v jsonv.Value) (int, bool) {
	n, ok := v.Int()
	if !ok || n < 0 || n >= int64(len(table)) {
		return 0, false
	}
	return int(n), true
}

// DecodePacked resolves value against a packed table: "_<n>" keys are replaced by
// the n-th table entry and integer values that index the table are replaced by the
// entry they point at. Referenced objects and arrays are decoded in turn; referenced
// scalars are returned as they are.
func DecodePacked(table []jsonv.Value, value jsonv.Value) jsonv.Value {
	return newPackedDecoder(table).decode(value, 0)
}

// packedDecoder decodes each referenced table entry at most once. A reference to
// an entry that is still being decoded is left as the raw index, so cyclic tables
// terminate and entries referenced many times are not expanded again.
type packedDecoder struct {
	table   []jsonv.Value
	decoded map[int]jsonv.Value
	active  map[int]bool
}

func newPackedDecoder(table []jsonv.Value) *packedDecoder {
	return &packedDecoder{
		table:   table,
		decoded: make(map[int]jsonv.Value),
		active:  make(map[int]bool),
	}
}

func (d *packedDecoder) decode(value jsonv.Value, depth int) jsonv.Value {
	if depth > maxPackedDepth {
		return value
	}

	switch value.Kind() {
	case jsonv.KindObject:
		out := jsonv.NewObject()
		for _, m := range value.Object().Members() {
			out.Set(parseTableKey(m.Key).resolve(d.table), d.decode(m.Value, depth+1))
		}
		return jsonv.FromObject(out)
	case jsonv.KindArray:
		items := make([]jsonv.Value, 0, len(value.Items()))
		for _, item := range value.Items() {
			items = append(items, d.decode(item, depth+1))
		}
		return jsonv.Array(items...)
	case jsonv.KindNumber:
		idx, ok := tableRef(d.table, value)
		if !ok {
			return value
		}
		return d.entry(idx, value, depth)
	default:
		return value
	}
}

// entry decodes the table entry at idx. ref is returned unchanged when idx is
// already on the decoding path.
func (d *packedDecoder) entry(idx int, ref jsonv.Value, depth int) jsonv.Value {
	target := d.table[idx]
	if !target.IsObject() && !target.IsArray() {
		return target
	}
	if cached, ok := d.decoded[idx]; ok {
		return cached
	}
	if d.active[idx] {
		return ref
	}

	d.active[idx] = true
	out := d.decode(target, depth+1)
	delete(d.active, idx)
	d.decoded[idx] = out

	return out
}

// decodePackedMapping decodes the node mapping of a streamed chunk. Node ids are
// table-keyed and each node is usually a table reference itself. Entries whose id
// does not resolve to a string are dropped.
func decodePackedMapping(table []jsonv.Value, packed *jsonv.Object) *jsonv.Object {
	d := newPackedDecoder(table)
	decoded := jsonv.NewObject()
	for _, m := range packed.Members() {
		key := parseTableKey(m.Key)
		nodeID := key.name
		if key.isRef && key.ref < len(table) {
			id, ok := table[key.ref].Str()
			if !ok {
				continue
			}
			nodeID = id
		}

		node := m.Value
		if idx, ok := tableRef(table, node); ok {
			decoded.Set(nodeID, d.entry(idx, node, 0))
			continue
		}

		decoded.Set(nodeID, d.decode(node, 0))
	}

	return decoded
}
