// Package extract recovers the conversation tree embedded in a share page.
package extract

import (
	"fmt"

	"github.com/bnema/chat-distiller/internal/domain"
)

// Extract locates the embedded payload in page and returns the conversation state
// inside it, along with the strategy that produced the payload.
func Extract(page string) (State, Strategy, error) {
	payload, err := LocatePayload(page)
	if err != nil {
		return State{}, "", err
	}

	state, ok := FindState(payload.Value)
	if !ok {
		return State{}, payload.Strategy, fmt.Errorf("%w: could not locate conversation state (mapping/current_node) in embedded page data", domain.ErrExtraction)
	}
	if state.Mapping == nil {
		return State{}, payload.Strategy, fmt.Errorf("%w: conversation mapping missing or invalid", domain.ErrExtraction)
	}

	return state, payload.Strategy, nil
}
