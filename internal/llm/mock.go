package llm

import "context"

// MockClient permite tests sin llamar a un modelo real.
type MockClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockClient) Generate(ctx context.Context, system, user string) (string, error) {
	m.Prompts = append(m.Prompts, user)
	return m.Response, m.Err
}
