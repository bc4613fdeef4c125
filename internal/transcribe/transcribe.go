package transcribe

import "context"

// Transcriber is the external collaborator that turns a validated recording
// into text. The capture core hands it a file path and has no opinion about
// provider, protocol, or model.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}

// Func adapts a plain function to the Transcriber interface.
type Func func(ctx context.Context, wavPath string) (string, error)

func (f Func) Transcribe(ctx context.Context, wavPath string) (string, error) {
	return f(ctx, wavPath)
}
