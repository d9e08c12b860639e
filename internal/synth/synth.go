// Package synth turns retrieved context into a grounded natural-language
// answer. A synthesizer never fails: transport errors and timeouts map to
// a fixed apology so the cascade always has something to return.
package synth

import "context"

// FallbackText is returned whenever the model backend is unreachable,
// times out, or produces an empty completion.
const FallbackText = "I found relevant information but I'm having trouble generating a response right now. Please try again."

// Synthesizer produces an answer to question using only the supplied
// context text.
type Synthesizer interface {
	Synthesize(ctx context.Context, contextText, question string) string
}
