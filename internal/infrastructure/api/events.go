package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
)

var _ output.EventAPI = (*Client)(nil)

func eventPath(id uint) string { return fmt.Sprintf("/events/%d", id) }

// ListEvents fetches every event. A bare array and a paginated {"results": [...]}
// envelope are both accepted.
func (c *Client) ListEvents(ctx context.Context) ([]entities.Event, error) {
	const op = "list events"
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, "/events", nil, &raw); err != nil {
		return nil, err
	}

	var dtos []eventDTO
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results *[]eventDTO `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil || page.Results == nil {
			return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: expected a list of events")}
		}
		dtos = *page.Results
	} else if err := json.Unmarshal(trimmed, &dtos); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	events, err := eventsToDomain(dtos, c.loc)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, draft entities.EventDraft) (*entities.Event, error) {
	return c.writeEvent(ctx, "create event", http.MethodPost, "/events", draft)
}

func (c *Client) UpdateEvent(ctx context.Context, id uint, draft entities.EventDraft) (*entities.Event, error) {
	return c.writeEvent(ctx, "update event", http.MethodPatch, eventPath(id), draft)
}

// writeEvent returns the saved event, or nil when the backend answers without a body.
func (c *Client) writeEvent(ctx context.Context, op, method, path string, draft entities.EventDraft) (*entities.Event, error) {
	var dto *eventDTO
	if err := c.do(ctx, op, method, path, draftToWire(draft, c.loc), &dto); err != nil {
		return nil, err
	}
	if dto == nil {
		return nil, nil
	}
	e, err := eventToDomain(*dto, c.loc)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return &e, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id uint) error {
	return c.do(ctx, "delete event", http.MethodDelete, eventPath(id), nil, nil)
}

func (c *Client) Participate(ctx context.Context, id uint) error {
	return c.do(ctx, "participate", http.MethodPost, eventPath(id)+"/participate", nil, nil)
}

func (c *Client) Leave(ctx context.Context, id uint) error {
	return c.do(ctx, "leave", http.MethodPost, eventPath(id)+"/leave", nil, nil)
}

func (c *Client) RemoveParticipant(ctx context.Context, eventID, userID uint) error {
	path := fmt.Sprintf("%s/participants/%d", eventPath(eventID), userID)
	return c.do(ctx, "remove participant", http.MethodDelete, path, nil, nil)
}
