// Package entity defines the domain entities for the chat feature.
package entity

import "github.com/google/uuid"

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MaxStoredTurns bounds the stored sequence of every conversation.
const MaxStoredTurns = 50

// Turn is one message of a conversation.
type Turn struct {
	// PairID links a user turn to the assistant turn that answered it.
	PairID  string `json:"pairId"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Pair is the client-facing view of two consecutive turns.
type Pair struct {
	ID   string `json:"id"`
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Conversation is the ordered turn history of one user.
type Conversation struct {
	UserID string `json:"userId"`
	Turns  []Turn `json:"turns"`
}

// NewConversation returns an empty conversation for userID.
func NewConversation(userID string) *Conversation {
	return &Conversation{UserID: userID, Turns: []Turn{}}
}

// Append adds a turn and returns it.
// A user turn opens a new pair; an assistant turn joins the pair of the
// user turn directly before it, or opens its own pair otherwise.
func (c *Conversation) Append(role Role, content string) Turn {
	pairID := ""
	if role == RoleAssistant && len(c.Turns) > 0 {
		if last := c.Turns[len(c.Turns)-1]; last.Role == RoleUser {
			pairID = last.PairID
		}
	}
	if pairID == "" {
		pairID = uuid.NewString()
	}
	t := Turn{PairID: pairID, Role: role, Content: content}
	c.Turns = append(c.Turns, t)
	return t
}

// Trim keeps only the last max turns.
func (c *Conversation) Trim(max int) {
	if max < 0 || len(c.Turns) <= max {
		return
	}
	kept := make([]Turn, max)
	copy(kept, c.Turns[len(c.Turns)-max:])
	c.Turns = kept
}

// Window returns a copy of the last n turns.
func (c *Conversation) Window(n int) []Turn {
	start := 0
	if n >= 0 && len(c.Turns) > n {
		start = len(c.Turns) - n
	}
	out := make([]Turn, len(c.Turns)-start)
	copy(out, c.Turns[start:])
	return out
}

// Paired walks the turns two at a time from the start. A pair is emitted
// only when both positions exist; a trailing single turn is dropped.
func (c *Conversation) Paired() []Pair {
	pairs := make([]Pair, 0, len(c.Turns)/2)
	for i := 0; i+1 < len(c.Turns); i += 2 {
		pairs = append(pairs, Pair{
			ID:   c.Turns[i].PairID,
			User: c.Turns[i].Content,
			Bot:  c.Turns[i+1].Content,
		})
	}
	return pairs
}

// RemovePair deletes the first user turn whose content equals userContent
// together with the first later assistant turn whose content equals
// botContent. Turns between them are kept. It reports whether a pair was found.
func (c *Conversation) RemovePair(userContent, botContent string) bool {
	for i, t := range c.Turns {
		if t.Role != RoleUser || t.Content != userContent {
			continue
		}
		for j := i + 1; j < len(c.Turns); j++ {
			if c.Turns[j].Role == RoleAssistant && c.Turns[j].Content == botContent {
				c.removeAt(i, j)
				return true
			}
		}
	}
	return false
}

// RemovePairByID deletes the two turns that Paired shows under pairID,
// so the removed positions always match the displayed pair.
func (c *Conversation) RemovePairByID(pairID string) bool {
	if pairID == "" {
		return false
	}
	for i := 0; i+1 < len(c.Turns); i += 2 {
		if c.Turns[i].PairID == pairID {
			c.removeAt(i, i+1)
			return true
		}
	}
	return false
}

// removeAt deletes positions i and j (i < j).
func (c *Conversation) removeAt(i, j int) {
	kept := make([]Turn, 0, len(c.Turns)-2)
	kept = append(kept, c.Turns[:i]...)
	kept = append(kept, c.Turns[i+1:j]...)
	kept = append(kept, c.Turns[j+1:]...)
	c.Turns = kept
}
