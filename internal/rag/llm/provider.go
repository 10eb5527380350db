package llm

import (
	"context"
	"fmt"
	"strings"
)

type Provider interface {
	Generate(ctx context.Context, query string, assembledContext string, messageHistory []string) (string, error)
}

// BuildUserPrompt lays out history, page-tagged context and question the same
// way for every provider so answers cite pages consistently.
func BuildUserPrompt(query string, assembledContext string, messageHistory []string) string {
	var b strings.Builder

	if len(messageHistory) > 0 {
		b.WriteString("Message History (Question is what the user asked, Answer is what you replied):\n")
		b.WriteString(strings.Join(messageHistory, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Context:\n%s\n\nUser Question: %s", assembledContext, query))
	return b.String()
}
