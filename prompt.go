package robbie

import "strings"

// Llama 3.1 chat template markers. The downstream model matches these
// byte-for-byte.
const (
	BeginOfText = "<|begin_of_text|>\n"
	StartHeader = "<|start_header_id|>"
	EndHeader   = "<|end_header_id|>"
	EndOfTurn   = "<|eot_id|>"
)

// FormatPrompt serializes the conversation into the chat template. The
// result ends with an open Assistant header that primes the model to reply;
// that header is not a stored turn. Content is emitted verbatim, including
// any marker substrings it happens to contain.
func FormatPrompt(c *Conversation) string {
	var b strings.Builder
	b.WriteString(BeginOfText)
	for _, t := range c.turns {
		writeHeader(&b, t.Role)
		b.WriteString(t.Content)
		b.WriteString(EndOfTurn)
		b.WriteByte('\n')
	}
	writeHeader(&b, RoleAssistant)
	return b.String()
}

func writeHeader(b *strings.Builder, role Role) {
	b.WriteString(StartHeader)
	b.WriteString(role.String())
	b.WriteString(EndHeader)
	b.WriteString("\n\n")
}
