package llm

import "context"

// FakeClient returns canned responses for offline use and tests. When
// Responses is non-empty they are consumed in order; otherwise Response is
// returned for every call.
type FakeClient struct {
	Response  string
	Responses []string
	Err       error

	Prompts []string
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(_ context.Context, prompt string) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Responses) > 0 {
		out := f.Responses[0]
		f.Responses = f.Responses[1:]
		return out, nil
	}
	return f.Response, nil
}
