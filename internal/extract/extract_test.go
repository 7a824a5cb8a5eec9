package extract

import (
	"testing"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNextDataState(t *testing.T) {
	t.Parallel()

	state, strategy, err := Extract(nextDataPage(`{"props": {"pageProps": ` + nextDataState + `}}`))
	require.NoError(t, err)

	assert.Equal(t, StrategyNextData, strategy)
	assert.Equal(t, "n2", state.CurrentNode)
	assert.Equal(t, []string{"n1", "n2"}, state.Mapping.Keys())
}

func TestExtractStreamState(t *testing.T) {
	t.Parallel()

	state, strategy, err := Extract(streamPage(t, `["noise"]`, packedChunk))
	require.NoError(t, err)

	assert.Equal(t, StrategyStream, strategy)
	assert.Equal(t, "n2", state.CurrentNode)
}

func TestExtractFailsWhenPayloadHasNoState(t *testing.T) {
	t.Parallel()

	_, strategy, err := Extract(nextDataPage(`{"props": {"pageProps": {"title": "nope"}}}`))
	require.Error(t, err)

	assert.Equal(t, StrategyNextData, strategy)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorContains(t, err, "could not locate conversation state")
}

func TestExtractFailsWithoutAnyEmbed(t *testing.T) {
	t.Parallel()

	_, _, err := Extract(`<html><head><title>x</title></head></html>`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}
