package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const nextDataState = `{"mapping": {"n1": {"message": {"author": {"role": "user"}, "content": "Hi", "create_time": 1}, "children": ["n2"]}, "n2": {"parent": "n1", "message": {"author": {"role": "assistant"}, "content": "Hello!", "create_time": 2}, "children": []}}, "current_node": "n2"}`

// packedChunk is a streamed table whose current_node is a sentinel and whose real
// leaf must be recovered from linear_conversation.
const packedChunk = `["mapping",{"_2":4,"_3":9},"n1","n2",{"_5":6,"_11":13},"message",{"_7":8,"_14":15},"author",{"_10":12},{"_16":2,"_5":17,"_11":19},"role","children","user",[3],"content","Hi there","parent",{"_7":18,"_14":20},{"_10":21},[],"Hello!","assistant","current_node","conversation_id","linear_conversation",[2,3]]`

func nextDataPage(body string) string {
	return `<!DOCTYPE html><html><head><title>Shared chat</title></head><body>` +
		`<script id="__NEXT_DATA__" type="application/json">` + body + `</script>` +
		`</body></html>`
}

// enqueue renders payload as a streamController.enqueue call with an escaped literal.
func enqueue(t *testing.T, payload string) string {
	t.Helper()

	quoted, err := json.Marshal(payload)
	require.NoError(t, err)
	return `streamController.enqueue(` + string(quoted) + `);`
}

func streamPage(t *testing.T, payloads ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<html><body>")
	for _, p := range payloads {
		b.WriteString("<script>")
		b.WriteString(enqueue(t, p))
		b.WriteString("</script>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
