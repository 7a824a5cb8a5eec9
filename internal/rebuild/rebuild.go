// Package rebuild turns a conversation node mapping into the linear transcript
// visible on the page.
package rebuild

import (
	"fmt"
	"strings"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/jsonv"
)

// Content types that carry model scaffolding rather than conversation.
var hiddenContentTypes = map[string]struct{}{
	"model_editable_context": {},
	"code":                   {},
	"execution_output":       {},
}

// Rebuild walks parent links from currentNode back to the root and returns the user
// and assistant messages on that path in root-to-leaf order. When currentNode is not
// in the mapping, the most recent conversational leaf stands in for it.
//
// Nodes that cannot produce a message are skipped. An empty mapping, an empty
// current node, an unrecoverable current node and a parent cycle are errors.
func Rebuild(mapping *jsonv.Object, currentNode string) ([]domain.Message, error) {
	if mapping.Len() == 0 {
		return nil, fmt.Errorf("%w: conversation mapping is empty or invalid", domain.ErrRebuild)
	}
	if currentNode == "" {
		return nil, fmt.Errorf("%w: current node is empty or invalid", domain.ErrRebuild)
	}

	if !mapping.Has(currentNode) {
		inferred, ok := latestLeaf(mapping)
		if !ok {
			return nil, fmt.Errorf("%w: current node not found in mapping, and no terminal node could be inferred", domain.ErrRebuild)
		}
		currentNode = inferred
	}

	path, err := pathToRoot(mapping, currentNode)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		node, ok := mapping.Get(path[i])
		if !ok || !node.IsObject() {
			continue
		}
		if m, ok := nodeMessage(node); ok {
			messages = append(messages, m)
		}
	}

	return messages, nil
}

// pathToRoot collects ids from leaf to root. The walk ends at the first node without
// a non-empty string parent, or at an id missing from the mapping.
func pathToRoot(mapping *jsonv.Object, leaf string) ([]string, error) {
	var path []string
	seen := map[string]struct{}{}

	for id := leaf; id != ""; {
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: cycle detected while rebuilding conversation at node %q", domain.ErrRebuild, id)
		}
		seen[id] = struct{}{}
		path = append(path, id)

		node, ok := mapping.Get(id)
		if !ok || !node.IsObject() {
			break
		}
		parent, _ := node.Get("parent")
		id, _ = parent.Str()
	}

	return path, nil
}

// latestLeaf picks the childless user or assistant node with the greatest
// create_time. Ties go to the later node in mapping order.
func latestLeaf(mapping *jsonv.Object) (string, bool) {
	var bestID string
	var bestTime float64
	found := false

	for _, m := range mapping.Members() {
		node := m.Value
		if !node.IsObject() {
			continue
		}
		if children, ok := node.Get("children"); ok && len(children.Items()) > 0 {
			continue
		}

		message, ok := node.Get("message")
		if !ok || !message.IsObject() {
			continue
		}
		if !messageRole(message).Conversational() {
			continue
		}

		created, _ := message.Get("create_time")
		t, ok := created.Float()
		if !ok {
			continue
		}
		if !found || t >= bestTime {
			bestID, bestTime, found = m.Key, t, true
		}
	}

	return bestID, found
}

func messageRole(message jsonv.Value) domain.Role {
	author, _ := message.Get("author")
	role, _ := author.Get("role")
	s, _ := role.Str()
	return domain.Role(s)
}

func nodeMessage(node jsonv.Value) (domain.Message, bool) {
	message, ok := node.Get("message")
	if !ok || !message.IsObject() {
		return domain.Message{}, false
	}

	role := messageRole(message)
	if !role.Conversational() {
		return domain.Message{}, false
	}

	raw, _ := message.Get("content")
	if _, hidden := hiddenContentTypes[contentType(raw)]; hidden {
		return domain.Message{}, false
	}

	text := strings.TrimSpace(classifyContent(raw).flatten())
	if text == "" {
		return domain.Message{}, false
	}

	return domain.Message{Role: role, Content: text}, true
}
