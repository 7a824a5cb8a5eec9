package extract

import "github.com/bnema/chat-distiller/internal/jsonv"

// State is the conversation tree found in a payload: the node mapping and the id
// of the node the page claims is current.
type State struct {
	Mapping     *jsonv.Object
	CurrentNode string
}

// FindState searches v depth first for the first object that has an object-typed
// "mapping" member and a string-typed "current_node" member. Object members are
// visited in document order, then array elements in index order.
func FindState(v jsonv.Value) (State, bool) {
	switch v.Kind() {
	case jsonv.KindObject:
		obj := v.Object()
		mapping, hasMapping := obj.Get(mappingToken)
		current, hasCurrent := obj.Get(currentNodeToken)
		if hasMapping && hasCurrent && mapping.IsObject() {
			if id, ok := current.Str(); ok {
				return State{Mapping: mapping.Object(), CurrentNode: id}, true
			}
		}
		for _, m := range obj.Members() {
			if found, ok := FindState(m.Value); ok {
				return found, true
			}
		}
	case jsonv.KindArray:
		for _, item := range v.Items() {
			if found, ok := FindState(item); ok {
				return found, true
			}
		}
	}

	return State{}, false
}
