package llm

import (
	"strings"
	"testing"
)

// The yandex branch is not exercised here: NewYandex exchanges the OAuth
// token for an IAM token over the network at construction time.
func TestCreateClientSelectsProvider(t *testing.T) {
	f := &Factory{OpenaiAPIKey: "test-key"}

	tests := []struct {
		provider string
		wantErr  bool
	}{
		{provider: "openai"},
		{provider: "OpenAI"},
		{provider: "anthropic", wantErr: true},
		{provider: "", wantErr: true},
	}

	for _, tt := range tests {
		client, err := f.CreateClient(tt.provider, "gpt-4o")
		if tt.wantErr {
			if err == nil {
				t.Fatalf("provider %q: expected error, got client %T", tt.provider, client)
			}
			if !strings.Contains(err.Error(), tt.provider) {
				t.Fatalf("provider %q: error should name the provider, got %v", tt.provider, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("provider %q: unexpected error: %v", tt.provider, err)
		}
		if _, ok := client.(*OpenAIClient); !ok {
			t.Fatalf("provider %q: expected *OpenAIClient, got %T", tt.provider, client)
		}
	}
}
