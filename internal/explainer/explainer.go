// Package explainer turns explain, suggest and diagnose queries into
// answers from the completion service. Failures never escape: the caller
// gets a Reply with a fixed apology instead.
package explainer

import (
	"context"

	"github.com/quocvuong92/ai-terminal/internal/api"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

var logger = logging.Named("ai-service")

// Reply is the outcome of a Query
type Reply struct {
	// Text is the answer, or the variant's apology when Unavailable
	Text string
	// Unavailable marks a reply produced because the service failed
	Unavailable bool
}

// Explainer owns the completion client used for queries
type Explainer struct {
	client api.AIClient
}

// New creates an explainer on top of client
func New(client api.AIClient) *Explainer {
	return &Explainer{client: client}
}

// Ask issues exactly one completion request for q
func (e *Explainer) Ask(ctx context.Context, q Query) Reply {
	system, user := q.prompts()

	text, err := e.client.Complete(ctx, system, user)
	if err != nil {
		logger.Warn("Error answering query", logging.Fields{
			"kind":  q.Kind(),
			"error": err.Error(),
		})
		return Reply{Text: q.apology(), Unavailable: true}
	}

	return Reply{Text: text}
}

// Close releases the underlying client
func (e *Explainer) Close() {
	e.client.Close()
}
