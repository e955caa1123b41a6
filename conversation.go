package robbie

// Turn is one role-attributed block of content. Content is stored verbatim.
type Turn struct {
	Role    Role
	Content string
}

// Conversation is the append-only transcript of one thread. Turns are kept
// in the order they were appended and are never edited or removed.
//
// A Conversation is owned by a single session and is not safe for
// concurrent use.
type Conversation struct {
	threadID string
	turns    []Turn
}

// NewConversation returns an empty conversation bound to threadID.
func NewConversation(threadID string) *Conversation {
	return &Conversation{threadID: threadID}
}

// ThreadID returns the thread the conversation was created with.
func (c *Conversation) ThreadID() string { return c.threadID }

// Len returns the number of stored turns.
func (c *Conversation) Len() int { return len(c.turns) }

// Append adds a turn at the end of the conversation.
func (c *Conversation) Append(role Role, content string) {
	c.turns = append(c.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy of the stored turns in append order. Mutating the
// returned slice does not affect the conversation.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}
