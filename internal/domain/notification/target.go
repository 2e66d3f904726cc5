// internal/domain/notification/target.go
package notification

// Kind selects the platform a target group is delivered to.
type Kind string

const (
	KindDiscord  Kind = "discord"
	KindTelegram Kind = "telegram"
)

// Target is a named destination for birthday messages.
type Target struct {
	GroupID             string
	Kind                Kind
	Webhook             string // discord
	ChatID              int64  // telegram
	DefaultPingEveryone bool
}
