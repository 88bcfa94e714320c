package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futbal/internal/domain/entities"
)

func TestBuildEventEmbed(t *testing.T) {
	limit := 22
	start := time.Date(2026, 11, 7, 14, 0, 0, 0, time.UTC)
	e := entities.Event{
		ID:              1,
		Title:           "Weekend Football Match",
		Description:     "Friendly 11v11",
		Type:            entities.EventTypeTournament,
		Location:        "Central Park",
		Coordinates:     &entities.Coordinates{Latitude: 40.7829, Longitude: -73.9654},
		StartsAt:        start,
		EndsAt:          start.Add(2 * time.Hour),
		MaxParticipants: &limit,
		Participants:    []entities.User{{ID: 2}, {ID: 3}},
	}

	embed := BuildEventEmbed(e, time.UTC, "New event: Weekend Football Match", "Organised by alice")
	assert.Equal(t, "New event: Weekend Football Match", embed.Title)
	assert.Equal(t, 0xF9A825, embed.Color)
	assert.Equal(t, "https://www.google.com/maps?q=40.7829,-73.9654", embed.URL)
	assert.Equal(t, "2026-11-07T14:00:00Z", embed.Timestamp)
	assert.Contains(t, embed.Description, "07/11/2026 14:00 – 16:00")
	assert.Contains(t, embed.Description, "2/22")
	assert.Equal(t, "Organised by alice", embed.Footer.Text)
}

func TestFormatPlaces(t *testing.T) {
	limit := 4
	assert.Equal(t, "3 (∞)", formatPlaces(nil, 3))
	assert.Equal(t, "3/4", formatPlaces(&limit, 3))
}

func TestFormatWhen(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	start := time.Date(2026, 11, 7, 20, 0, 0, 0, paris)

	assert.Equal(t, "07/11/2026 20:00", formatWhen(start, time.Time{}, paris))
	assert.Equal(t, "07/11/2026 20:00 – 22:00", formatWhen(start, start.Add(2*time.Hour), paris))
	assert.Equal(t, "07/11/2026 20:00 – 08/11/2026 01:00", formatWhen(start, start.Add(5*time.Hour), paris))
	assert.Equal(t, "07/11/2026 20:00 – 09/11/2026 18:00", formatWhen(start, start.Add(46*time.Hour), paris))

	// Same UTC day, but the end is past midnight in Paris.
	utcStart := time.Date(2026, 11, 7, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "07/11/2026 23:00 – 08/11/2026 00:30", formatWhen(utcStart, utcStart.Add(90*time.Minute), paris))
}
