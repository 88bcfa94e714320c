package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futbal/internal/domain/entities"
)

type announcerFunc func(ctx context.Context, e entities.Event) error

func (f announcerFunc) AnnounceEvent(ctx context.Context, e entities.Event) error { return f(ctx, e) }

func TestAttachAnnouncer_AnnouncesEachCreatedEvent(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(alice)
	var announced []string
	app.AttachAnnouncer(announcerFunc(func(_ context.Context, e entities.Event) error {
		announced = append(announced, e.Title)
		return nil
	}), nil)
	require.NoError(t, loginAs(ctx, app, alice))

	n, err := app.Owner.Seed(ctx, []entities.EventDraft{draft("First", nil), draft("Second", intPtr(4))})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"First", "Second"}, announced, "batched creations are still announced one by one")

	created, err := app.Owner.Create(ctx, draft("Third", nil))
	require.NoError(t, err)
	require.NoError(t, app.Participation.Join(ctx, created.ID))
	assert.Equal(t, []string{"First", "Second", "Third"}, announced, "joins are not announced")
}

func TestAttachAnnouncer_FailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()
	app, backend := newTestApp(alice)
	app.AttachAnnouncer(announcerFunc(func(context.Context, entities.Event) error {
		return errors.New("webhook down")
	}), nil)
	require.NoError(t, loginAs(ctx, app, alice))

	_, err := app.Owner.Create(ctx, draft("Kickabout", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, backend.count("create"))
}
