package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"birthday_notification_bot/internal/domain/notification"
)

// Document is the roster file: people, target groups and the optional
// liveness ping.
type Document struct {
	People      map[string]PersonConfig `json:"people"`
	Groups      map[string]GroupConfig  `json:"groups"`
	Healthcheck *HealthcheckConfig      `json:"healthcheck,omitempty"`
}

// PersonConfig is one person entry. Date is [day, month].
type PersonConfig struct {
	Date   [2]int        `json:"date"`
	TZ     string        `json:"tz"`
	Notify *NotifyConfig `json:"notify,omitempty"`
}

type NotifyConfig struct {
	ID           string   `json:"id,omitempty"`
	Groups       []string `json:"groups"`
	PingEveryone *bool    `json:"ping_everyone,omitempty"`
}

type GroupConfig struct {
	Kind                string `json:"kind,omitempty"` // default: discord
	Webhook             string `json:"webhook,omitempty"`
	ChatID              int64  `json:"chat_id,omitempty"`
	DefaultPingEveryone bool   `json:"default_ping_everyone"`
}

type HealthcheckConfig struct {
	URL      string `json:"url"`
	Interval int    `json:"interval"` // seconds
}

// Every returns the ping interval, defaulting to one minute.
func (h HealthcheckConfig) Every() time.Duration {
	if h.Interval <= 0 {
		return time.Minute
	}
	return time.Duration(h.Interval) * time.Second
}

// LoadDocument reads and validates the roster file at path. JSON and YAML
// (.yaml/.yml) are both accepted; unknown fields are rejected.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read %s: %v", ErrConfig, path, err)
	}
	return ParseDocument(path, data)
}

// ParseDocument decodes a roster document. path is only used to pick the format.
func ParseDocument(path string, data []byte) (*Document, error) {
	jsonBytes, format := data, "json"
	if isYAMLPath(path) {
		format = "yaml"
		var err error
		if jsonBytes, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.DisallowUnknownFields()
	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("%w: could not decode %s document %s: %v", ErrConfig, format, path, err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	if d.People == nil {
		d.People = map[string]PersonConfig{}
	}
	if d.Groups == nil {
		d.Groups = map[string]GroupConfig{}
	}
	for id, g := range d.Groups {
		switch notification.Kind(g.Kind) {
		case "", notification.KindDiscord:
			if g.Webhook == "" {
				return fmt.Errorf("%w: group %q has no webhook", ErrConfig, id)
			}
		case notification.KindTelegram:
			if g.ChatID == 0 {
				return fmt.Errorf("%w: group %q has no chat_id", ErrConfig, id)
			}
		default:
			return fmt.Errorf("%w: group %q has unknown kind %q", ErrConfig, id, g.Kind)
		}
	}
	if d.Healthcheck != nil && d.Healthcheck.URL == "" {
		return fmt.Errorf("%w: healthcheck has no url", ErrConfig)
	}
	return nil
}

// Targets converts the group section into notification targets keyed by group id.
func (d *Document) Targets() map[string]notification.Target {
	targets := make(map[string]notification.Target, len(d.Groups))
	for id, g := range d.Groups {
		kind := notification.Kind(g.Kind)
		if kind == "" {
			kind = notification.KindDiscord
		}
		targets[id] = notification.Target{
			GroupID:             id,
			Kind:                kind,
			Webhook:             g.Webhook,
			ChatID:              g.ChatID,
			DefaultPingEveryone: g.DefaultPingEveryone,
		}
	}
	return targets
}

// UsesKind reports whether any group is delivered through the given kind.
func (d *Document) UsesKind(kind notification.Kind) bool {
	for _, t := range d.Targets() {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// PersonNames returns the configured names in a stable order.
func (d *Document) PersonNames() []string {
	names := make([]string, 0, len(d.People))
	for name := range d.People {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
