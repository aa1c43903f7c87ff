// Package compose validates and submits new thread messages. The input
// buffer is cleared only on a successful write, so a failed send never
// loses the author's text.
package compose

import (
	"context"
	"fmt"
	"strings"
)

// Limits for the two composer kinds.
const (
	TicketReplyMinLen = 2
	ChatMinLen        = 1
	ChatMaxLen        = 2000
)

// ValidationError rejects input locally, before any write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// Author identifies who is submitting and with which role.
type Author struct {
	ID      string
	Name    string
	IsAdmin bool
}

// Thread persists one message and bumps its parent (updated-at for
// tickets, last-seen for chat sessions). Implementations decide any
// role-dependent side effects, such as an admin reply moving a ticket
// to en_cours.
type Thread interface {
	Append(ctx context.Context, author Author, body string) error
}

type Composer struct {
	thread Thread
	minLen int
	maxLen int // 0 means unbounded
	input  string
}

// NewTicketComposer builds a reply composer: min 2 characters, no upper
// bound beyond transport limits.
func NewTicketComposer(t Thread) *Composer {
	return &Composer{thread: t, minLen: TicketReplyMinLen}
}

// NewChatComposer builds a live-chat composer: min 1, max 2000 characters.
func NewChatComposer(t Thread) *Composer {
	return &Composer{thread: t, minLen: ChatMinLen, maxLen: ChatMaxLen}
}

func (c *Composer) SetInput(s string) { c.input = s }
func (c *Composer) Input() string     { return c.input }

// Submit trims and validates the current input, writes the message and
// clears the input. On any failure the input is preserved.
func (c *Composer) Submit(ctx context.Context, author Author) error {
	body := strings.TrimSpace(c.input)
	if len([]rune(body)) < c.minLen {
		return &ValidationError{Reason: fmt.Sprintf("message must be at least %d character(s)", c.minLen)}
	}
	if c.maxLen > 0 && len([]rune(body)) > c.maxLen {
		return &ValidationError{Reason: fmt.Sprintf("message must be at most %d characters", c.maxLen)}
	}
	if err := c.thread.Append(ctx, author, body); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	c.input = ""
	return nil
}
