package service

import (
	"context"
	"fmt"
)

// scriptedModel is an in-package ChatModel double. Replies are consumed in
// order; the last one repeats once the script runs out.
type scriptedModel struct {
	replies      []string
	err          error
	calls        int
	lastSystem   string
	lastMessages []ChatMessage
}

var _ ChatModel = (*scriptedModel)(nil)

func (m *scriptedModel) Complete(ctx context.Context, systemPrompt string, messages []ChatMessage) (string, error) {
	m.calls++
	m.lastSystem = systemPrompt
	m.lastMessages = messages
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", fmt.Errorf("%w: script exhausted", ErrGatewayUnavailable)
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}
