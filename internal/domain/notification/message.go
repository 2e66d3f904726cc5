// internal/domain/notification/message.go
package notification

import (
	"fmt"
	"strings"
)

// Recipient is a person being congratulated in a message.
type Recipient struct {
	Name      string
	MentionID string // optional platform user id
}

// Message is a platform independent birthday announcement. Senders render it
// into their own wire format.
type Message struct {
	Username     string
	AvatarURL    string
	Title        string
	Prefix       string
	Recipients   []Recipient
	ImageURL     string
	Footer       string
	PingEveryone bool
}

// Description renders the message body, formatting each recipient with mention.
func (m Message) Description(mention func(Recipient) string) string {
	mentions := make([]string, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		mentions = append(mentions, mention(r))
	}
	return fmt.Sprintf("%s Please wish a very happy birthday to %s.", m.Prefix, strings.Join(mentions, ", "))
}

// RecipientNames returns the display names of every recipient.
func (m Message) RecipientNames() []string {
	names := make([]string, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		names = append(names, r.Name)
	}
	return names
}
