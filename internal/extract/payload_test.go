package extract

import (
	"testing"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/jsonv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatePayloadNextData(t *testing.T) {
	t.Parallel()

	got, err := LocatePayload(nextDataPage(`{"props": {"pageProps": {"serverResponse": {"data": ` + nextDataState + `}}}}`))
	require.NoError(t, err)

	assert.Equal(t, StrategyNextData, got.Strategy)
	props, ok := got.Value.Get("props")
	require.True(t, ok)
	assert.True(t, props.IsObject())
}

func TestLocatePayloadNextDataAttributeVariants(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"single quotes":   `<html><SCRIPT type='application/json' ID='__NEXT_DATA__'>{"a": 1}</SCRIPT></html>`,
		"other scripts":   `<script src="/app.js"></script><script id="other">{"b": 2}</script><script id="__NEXT_DATA__">{"a": 1}</script>`,
		"padded body":     "<script id=\"__NEXT_DATA__\">\n  {\"a\": 1}\n</script>",
		"angle in string": `<script id="__NEXT_DATA__">{"a": 1, "s": "<div>"}</script>`,
	}

	for name, page := range pages {
		page := page
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := LocatePayload(page)
			require.NoError(t, err)
			a, ok := got.Value.Get("a")
			require.True(t, ok)
			n, _ := a.Int()
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestLocatePayloadFallsBackToStreamWhenNextDataInvalid(t *testing.T) {
	t.Parallel()

	page := nextDataPage(`{not json`) + streamPage(t, packedChunk)

	got, err := LocatePayload(page)
	require.NoError(t, err)
	assert.Equal(t, StrategyStream, got.Strategy)
}

func TestLocatePayloadPrefersNextDataOverStream(t *testing.T) {
	t.Parallel()

	page := nextDataPage(`{"from": "next"}`) + streamPage(t, packedChunk)

	got, err := LocatePayload(page)
	require.NoError(t, err)
	assert.Equal(t, StrategyNextData, got.Strategy)
	_, ok := got.Value.Get("from")
	assert.True(t, ok)
}

func TestLocatePayloadStreamDecodesPackedMappingAndRecoversCurrentNode(t *testing.T) {
	t.Parallel()

	got, err := LocatePayload(streamPage(t, "P21:"+packedChunk))
	require.NoError(t, err)

	state, ok := FindState(got.Value)
	require.True(t, ok)
	assert.Equal(t, "n2", state.CurrentNode)
	assert.Equal(t, []string{"n1", "n2"}, state.Mapping.Keys())

	n1, _ := state.Mapping.Get("n1")
	assert.Equal(t, `{"message":{"author":{"role":"user"},"content":"Hi there"},"children":["n2"]}`, n1.Text())
	n2, _ := state.Mapping.Get("n2")
	assert.Equal(t, `{"parent":"n1","message":{"author":{"role":"assistant"},"content":"Hello!"},"children":[]}`, n2.Text())
}

func TestLocatePayloadStreamSkipsUnusableChunks(t *testing.T) {
	t.Parallel()

	plain := `["mapping",{"a":{"message":null}},"current_node","a"]`
	page := streamPage(t,
		`["unrelated","chunk"]`,
		`P1:[mapping current_node but not json`,
		`{"mapping": {}, "current_node": "x"}`,
		`["mapping","not an object","current_node","a"]`,
		`["mapping",{},"current_node","a"]`,
		plain,
	)

	got, err := LocatePayload(page)
	require.NoError(t, err)
	assert.Equal(t, `{"mapping":{"a":{"message":null}},"current_node":"a"}`, got.Value.Text())
}

func TestLocatePayloadStreamKeepsUnresolvedCurrentNodeForRebuild(t *testing.T) {
	t.Parallel()

	page := streamPage(t, `["mapping",{"a":{}},"current_node","missing"]`)

	got, err := LocatePayload(page)
	require.NoError(t, err)
	state, ok := FindState(got.Value)
	require.True(t, ok)
	assert.Equal(t, "missing", state.CurrentNode)
}

func TestLocatePayloadStreamRejectsChunkWithoutCurrentNodeString(t *testing.T) {
	t.Parallel()

	page := streamPage(t, `["mapping",{"a":{}},"current_node",{"nested":true}]`)

	_, err := LocatePayload(page)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorContains(t, err, "could not parse conversation state")
}

func TestLocatePayloadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    string
		wantErr string
	}{
		{name: "empty", page: "  ", wantErr: "empty HTML"},
		{name: "no embed at all", page: `<html><body><p>nothing here</p></body></html>`, wantErr: "could not find embedded React Router stream data"},
		{name: "invalid next data and no stream", page: nextDataPage(`{oops`), wantErr: "could not find embedded React Router stream data"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LocatePayload(tt.page)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrExtraction)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStripChunkLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `[1]`, stripChunkLabel(`[1]`))
	assert.Equal(t, `[1]`, stripChunkLabel(`P21: [1]`))
	assert.Equal(t, `[{"a":1}]`, stripChunkLabel(`7:[{"a":1}]`))
	assert.Equal(t, `no label`, stripChunkLabel(`no label`))
	assert.Equal(t, ``, stripChunkLabel(``))
}

func TestLinearTailTakesLastIDPresentInMapping(t *testing.T) {
	t.Parallel()

	tbl := jsonv.MustParse(`["linear_conversation",["a","b","ghost",7]]`).Items()
	mapping := jsonv.MustParse(`{"a":{},"b":{}}`).Object()

	got, ok := linearTail(tbl, mapping)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestLocatePayloadStreamSurvivesBranchingSelfReference(t *testing.T) {
	t.Parallel()

	page := streamPage(t, `["mapping",{"_4":2},[2,2],"current_node","n1"]`)

	got, err := LocatePayload(page)
	require.NoError(t, err)
	state, ok := FindState(got.Value)
	require.True(t, ok)
	assert.Equal(t, "n1", state.CurrentNode)
	node, _ := state.Mapping.Get("n1")
	assert.Equal(t, `[2,2]`, node.Text())
}

func TestLinearTailDecodesTableReference(t *testing.T) {
	t.Parallel()

	tbl := jsonv.MustParse(`["linear_conversation",3,"b",["a",2]]`).Items()
	mapping := jsonv.MustParse(`{"a":{},"b":{}}`).Object()

	got, ok := linearTail(tbl, mapping)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestLinearTailRejectsNonArraySuccessor(t *testing.T) {
	t.Parallel()

	tbl := jsonv.MustParse(`["linear_conversation","a"]`).Items()
	mapping := jsonv.MustParse(`{"a":{}}`).Object()

	_, ok := linearTail(tbl, mapping)
	assert.False(t, ok)
}
