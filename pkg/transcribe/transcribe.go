package transcribe

import "context"

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	Name() string
}

// Result is the common transcription result from any provider.
type Result struct {
	Text     string
	Language string
	Duration float64
}
