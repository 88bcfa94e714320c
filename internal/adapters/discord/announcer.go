package discord

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
	pkgdiscord "futbal/pkg/discord"
)

// Ensure Announcer implements the output.EventAnnouncer port.
var _ output.EventAnnouncer = (*Announcer)(nil)

// webhookExecutor is the part of *discordgo.Session the announcer uses.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts newly created events to a Discord channel through a webhook.
type Announcer struct {
	session   webhookExecutor
	webhookID string
	token     string
	tr        output.Translator
	loc       *time.Location
	log       *zap.Logger
}

// NewAnnouncer parses a webhook URL of the form
// https://discord.com/api/webhooks/<id>/<token>.
func NewAnnouncer(webhookURL string, tr output.Translator, loc *time.Location, logger *zap.Logger) (*Announcer, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// Webhook execution needs no bot token.
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord: session: %w", err)
	}
	return newAnnouncer(s, id, token, tr, loc, logger), nil
}

func newAnnouncer(s webhookExecutor, id, token string, tr output.Translator, loc *time.Location, logger *zap.Logger) *Announcer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Announcer{session: s, webhookID: id, token: token, tr: tr, loc: loc, log: logger}
}

func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("discord: invalid webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("discord: invalid webhook url %q: expected .../webhooks/<id>/<token>", raw)
}

func (a *Announcer) AnnounceEvent(ctx context.Context, event entities.Event) error {
	title := a.tr.T("announce.title", map[string]any{"Title": event.Title})
	footer := a.tr.T("announce.footer", map[string]any{"Name": event.CreatedBy.DisplayName()})
	embed := pkgdiscord.BuildEventEmbed(event, a.loc, title, footer)

	_, err := a.session.WebhookExecute(a.webhookID, a.token, false, &discordgo.WebhookParams{
		Embeds:          []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: announce event %d: %w", event.ID, err)
	}
	a.log.Info("event announced", zap.Uint("event_id", event.ID))
	return nil
}
