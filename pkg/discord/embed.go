package discord

import (
	"fmt"
	"strings"
	"time"

	"futbal/internal/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x2E7D32

// Colors per event type, so a channel of announcements scans at a glance.
var typeColors = map[entities.EventType]int{
	entities.EventTypeMatch:      0x2E7D32,
	entities.EventTypeTournament: 0xF9A825,
	entities.EventTypeTraining:   0x1565C0,
	entities.EventTypeOther:      0x6D4C41,
}

func formatPlaces(maxParticipants *int, count int) string {
	if maxParticipants == nil {
		return fmt.Sprintf("%d (∞)", count)
	}
	return fmt.Sprintf("%d/%d", count, *maxParticipants)
}

// formatWhen prints the start, then the end time. The end date is only repeated
// when the event ends on another day.
func formatWhen(start, end time.Time, loc *time.Location) string {
	start = start.In(loc)
	s := start.Format("02/01/2006 15:04")
	if end.IsZero() {
		return s
	}
	end = end.In(loc)
	if sy, sm, sd := start.Date(); end.Year() != sy || end.Month() != sm || end.Day() != sd {
		return s + end.Format(" – 02/01/2006 15:04")
	}
	return s + end.Format(" – 15:04")
}

func buildDescription(event entities.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(event.Description)
	if !event.StartsAt.IsZero() {
		b.WriteString(fmt.Sprintf("\n\n**🗓** %s", formatWhen(event.StartsAt, event.EndsAt, loc)))
	}
	b.WriteString(fmt.Sprintf("\n**📍** %s", event.Location))
	b.WriteString(fmt.Sprintf("\n**👥** %s", formatPlaces(event.MaxParticipants, event.ParticipantCount())))
	return b.String()
}

// BuildEventEmbed builds the announcement embed for an event. title and footer are
// already localized.
func BuildEventEmbed(event entities.Event, loc *time.Location, title, footer string) *discordgo.MessageEmbed {
	if loc == nil {
		loc = time.Local
	}
	color, ok := typeColors[event.Type]
	if !ok {
		color = embedColor
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: buildDescription(event, loc),
		Color:       color,
		URL:         event.MapURL(),
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Type", Value: string(event.Type), Inline: true},
		},
	}
	if !event.StartsAt.IsZero() {
		embed.Timestamp = event.StartsAt.UTC().Format(time.RFC3339)
	}
	return embed
}
