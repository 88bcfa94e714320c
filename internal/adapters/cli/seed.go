package cli

import (
	"time"

	"futbal/internal/domain/entities"
)

type sample struct {
	title, description string
	typ                entities.EventType
	location           string
	lat, lng           float64
	dayOffset          int
	startHour, hours   int
	max                int
}

var samples = []sample{
	{"Weekend Football Match", "Join us for a friendly 11v11 football match at Central Park. All skill levels welcome!",
		entities.EventTypeMatch, "Central Park, New York", 40.7829, -73.9654, 2, 14, 2, 22},
	{"Youth Training Session", "Professional coaching session for young players aged 12-16. Focus on technique and teamwork.",
		entities.EventTypeTraining, "Brooklyn Bridge Park", 40.7021, -73.9969, 3, 10, 2, 20},
	{"Summer Football Tournament", "Annual summer tournament with prizes for winners. Teams of 5 players. Registration required.",
		entities.EventTypeTournament, "Prospect Park, Brooklyn", 40.6602, -73.9690, 7, 9, 9, 50},
	{"Evening Pickup Game", "Casual pickup game every Tuesday evening. No registration needed, just show up!",
		entities.EventTypeMatch, "Riverside Park", 40.7755, -73.9861, 1, 19, 2, 30},
	{"Advanced Skills Workshop", "Advanced training session focusing on dribbling, shooting, and tactical awareness.",
		entities.EventTypeTraining, "Flushing Meadows Park", 40.7505, -73.8454, 4, 15, 2, 15},
	{"Community Football Meetup", "Weekly community gathering for football enthusiasts. Great for networking and making friends.",
		entities.EventTypeOther, "Washington Square Park", 40.7308, -73.9973, 5, 16, 2, 25},
}

// SampleDrafts returns the demo events, scheduled relative to now in loc.
func SampleDrafts(now time.Time, loc *time.Location) []entities.EventDraft {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	drafts := make([]entities.EventDraft, 0, len(samples))
	for _, s := range samples {
		start := today.AddDate(0, 0, s.dayOffset).Add(time.Duration(s.startHour) * time.Hour)
		limit := s.max
		drafts = append(drafts, entities.EventDraft{
			Title:           s.title,
			Description:     s.description,
			Type:            s.typ,
			Location:        s.location,
			Coordinates:     &entities.Coordinates{Latitude: s.lat, Longitude: s.lng},
			StartsAt:        start,
			EndsAt:          start.Add(time.Duration(s.hours) * time.Hour),
			MaxParticipants: &limit,
		})
	}
	return drafts
}
