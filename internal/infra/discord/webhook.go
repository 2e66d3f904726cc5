// internal/infra/discord/webhook.go
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"birthday_notification_bot/internal/domain/notification"

	"golang.org/x/time/rate"
)

// WebhookPayload is the body of a Discord execute-webhook request.
type WebhookPayload struct {
	Username  string  `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Content   string  `json:"content"`
	Embeds    []Embed `json:"embeds"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Mention renders a recipient as a user mention, or a bold name when no id is known.
func Mention(r notification.Recipient) string {
	if r.MentionID != "" {
		return fmt.Sprintf("<@%s>", r.MentionID)
	}
	return fmt.Sprintf("**%s**", r.Name)
}

// NewPayload converts a message into the Discord webhook format.
func NewPayload(msg notification.Message) WebhookPayload {
	embed := Embed{
		Title:       msg.Title,
		Description: msg.Description(Mention),
	}
	if msg.ImageURL != "" {
		embed.Image = &EmbedImage{URL: msg.ImageURL}
	}
	if msg.Footer != "" {
		embed.Footer = &EmbedFooter{Text: msg.Footer}
	}

	content := ""
	if msg.PingEveryone {
		content = "@everyone"
	}
	return WebhookPayload{
		Username:  msg.Username,
		AvatarURL: msg.AvatarURL,
		Content:   content,
		Embeds:    []Embed{embed},
	}
}

// WebhookClient posts messages to Discord webhooks. Posts from all groups
// share one rate limiter.
type WebhookClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewWebhookClient(timeout time.Duration, ratePerSec int) *WebhookClient {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &WebhookClient{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

// Send implements notification.Sender. Any non-2xx response is an ErrDelivery.
func (c *WebhookClient) Send(ctx context.Context, target notification.Target, msg notification.Message) error {
	body, err := json.Marshal(NewPayload(msg))
	if err != nil {
		return fmt.Errorf("%w: couldn't serialize webhook for group %s: %v", notification.ErrDelivery, target.GroupID, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", notification.ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.Webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", notification.ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: webhook responded %s", notification.ErrDelivery, resp.Status)
	}
	return nil
}
