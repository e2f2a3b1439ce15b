package companion

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	msgGreeting = "Hello! I'm Lily, your emotional companion. May I know your good name?"
	msgGoodbye  = "Goodbye! Remember, I'm here whenever you need me."
)

// IsExit reports whether input ends the conversation.
func IsExit(input string) bool {
	switch normalize(input) {
	case "exit", "bye", "quit":
		return true
	}
	return false
}

// Chat runs the interactive loop: ask for a name, then handle one message per
// turn until the user says goodbye or the conversation closes.
func (c *Companion) Chat(ctx context.Context, conv Conversation) error {
	name, err := conv.Ask(ctx, msgGreeting)
	if err != nil {
		return ignoreClosed(err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "friend"
	}
	c.SetUserName(name)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		input, err := conv.Ask(ctx, fmt.Sprintf("Hi %s, how are you feeling today?", name))
		if err != nil {
			return ignoreClosed(err)
		}
		input = strings.TrimSpace(input)
		if IsExit(input) {
			conv.Say(msgGoodbye)
			return nil
		}
		if input == "" {
			continue
		}
		if _, err := c.Respond(ctx, conv, input); err != nil {
			return ignoreClosed(err)
		}
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}
