package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
)

func (h *Handler) handleEvents(ctx context.Context, args []string) error {
	if _, err := h.directory.Refresh(ctx); err != nil {
		return err
	}
	h.writeEvents(h.out, slices.Collect(h.directory.List()), "shell.events.empty")
	return nil
}

// handleFilter re-filters the current snapshot without a request. "-" clears the text.
func (h *Handler) handleFilter(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	text := args[0]
	if text == "-" {
		text = ""
	}
	typ := entities.EventTypeAll
	if len(args) == 2 {
		typ = entities.EventType(strings.ToLower(args[1]))
		if typ != entities.EventTypeAll && !typ.Valid() {
			return domain.Invalid("event_type", "must be one of "+typeChoices(", ", true))
		}
	}
	h.directory.SetFilter(text, typ)
	h.writeEvents(h.out, slices.Collect(h.directory.List()), "shell.events.empty")
	return nil
}

func (h *Handler) handleShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := h.ensureLoaded(ctx); err != nil {
		return err
	}
	e, ok := h.directory.Get(id)
	if !ok {
		return domain.ErrEventNotFound
	}
	h.writeEventDetail(h.out, e)
	return nil
}

func (h *Handler) handleJoin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := h.ensureLoaded(ctx); err != nil {
		return err
	}
	if err := h.participation.Join(ctx, id); err != nil {
		return err
	}
	title := fmt.Sprintf("#%d", id)
	if e, ok := h.directory.Get(id); ok {
		title = e.Title
	}
	h.println(h.tr.T("shell.joined", map[string]any{"Title": title}))
	return nil
}

func (h *Handler) handleLeave(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := h.participation.Leave(ctx, id); err != nil {
		return err
	}
	h.println(h.tr.T("shell.left", map[string]any{"ID": id}))
	return nil
}

func (h *Handler) handleLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	u, err := h.session.Login(ctx, entities.Credentials{Username: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	h.println(h.tr.T("shell.logged_in", map[string]any{"Name": u.DisplayName()}))
	return nil
}

func (h *Handler) handleGoogle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	u, err := h.session.LoginWithGoogle(ctx, args[0])
	if err != nil {
		return err
	}
	h.println(h.tr.T("shell.logged_in", map[string]any{"Name": u.DisplayName()}))
	return nil
}

func (h *Handler) handleSignup(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 5 {
		return errUsage
	}
	fields := entities.SignupFields{
		Username:        args[0],
		Email:           args[1],
		Password:        args[2],
		PasswordConfirm: args[2],
	}
	if len(args) > 3 {
		fields.FirstName = args[3]
	}
	if len(args) > 4 {
		fields.LastName = args[4]
	}
	u, err := h.session.Signup(ctx, fields)
	if err != nil {
		return err
	}
	h.println(h.tr.T("shell.logged_in", map[string]any{"Name": u.DisplayName()}))
	return nil
}

// handleLogout reports a remote failure, but the local session is gone either way.
func (h *Handler) handleLogout(ctx context.Context, args []string) error {
	err := h.session.Logout(ctx)
	h.println(h.tr.T("shell.logged_out", nil))
	return err
}

func (h *Handler) handleWhoami(ctx context.Context, args []string) error {
	u, ok := h.session.Current()
	if !ok {
		h.println(h.tr.T("shell.anonymous", nil))
		return nil
	}
	h.writeUser(h.out, u)
	return nil
}

func (h *Handler) handleProfile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		u, err := h.profile.Load(ctx)
		if err != nil {
			return err
		}
		h.writeUser(h.out, u)
		return nil
	}
	if args[0] != "set" || len(args) < 2 {
		return errUsage
	}
	patch, err := parseProfilePatch(args[1:])
	if err != nil {
		return err
	}
	u, err := h.profile.Update(ctx, patch)
	if err != nil {
		return err
	}
	h.println(h.tr.T("shell.profile.updated", nil))
	h.writeUser(h.out, u)
	return nil
}

func (h *Handler) handleMine(ctx context.Context, args []string) error {
	if _, ok := h.session.Current(); !ok {
		return domain.ErrUnauthenticated
	}
	h.writeEvents(h.out, h.owner.MyEvents(), "shell.mine.empty")
	return nil
}

func (h *Handler) handleJoined(ctx context.Context, args []string) error {
	if _, ok := h.session.Current(); !ok {
		return domain.ErrUnauthenticated
	}
	h.writeEvents(h.out, h.owner.JoinedEvents(), "shell.joined_list.empty")
	return nil
}

func (h *Handler) handleCreate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	draft, err := parseDraft(args, h.loc)
	if err != nil {
		return err
	}
	e, err := h.owner.Create(ctx, draft)
	if err != nil {
		return err
	}
	if e == nil {
		h.println(h.tr.T("shell.created_untitled", map[string]any{"Title": draft.Title}))
		return nil
	}
	h.println(h.tr.T("shell.created", map[string]any{"ID": e.ID, "Title": e.Title}))
	return nil
}

func (h *Handler) handleUpdate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := h.ensureLoaded(ctx); err != nil {
		return err
	}
	patch, err := parsePatch(args[1:], h.loc)
	if err != nil {
		return err
	}
	if _, err := h.owner.Update(ctx, id, patch); err != nil {
		return err
	}
	h.println(h.tr.T("shell.updated", map[string]any{"ID": id}))
	return nil
}

func (h *Handler) handleDelete(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	yes := len(args) == 2 && (args[1] == "--yes" || args[1] == "-y")
	if len(args) == 2 && !yes {
		return errUsage
	}
	confirm := func(e entities.Event) bool {
		if yes {
			return true
		}
		title := e.Title
		if title == "" {
			title = fmt.Sprintf("#%d", e.ID)
		}
		return h.confirm(h.tr.T("shell.delete.confirm", map[string]any{"Title": title}))
	}
	if err := h.owner.Delete(ctx, id, confirm); err != nil {
		return err
	}
	h.println(h.tr.T("shell.deleted", map[string]any{"ID": id}))
	return nil
}

func (h *Handler) handleKick(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	eventID, err := parseID(args[0])
	if err != nil {
		return err
	}
	userID, err := parseID(args[1])
	if err != nil {
		return err
	}
	if err := h.owner.RemoveParticipant(ctx, eventID, userID); err != nil {
		return err
	}
	h.println(h.tr.T("shell.kicked", map[string]any{"ID": eventID, "UserID": userID}))
	return nil
}

func (h *Handler) handleSeed(ctx context.Context, args []string) error {
	n, err := h.owner.Seed(ctx, SampleDrafts(h.now(), h.loc))
	if n > 0 {
		h.println(h.tr.T("shell.seeded", map[string]any{"Count": n}))
	}
	return err
}

func (h *Handler) handleHelp(ctx context.Context, args []string) error {
	h.println(h.tr.T("shell.help.header", nil))
	for _, name := range h.order {
		fmt.Fprintf(h.out, "  %-60s %s\n", h.commands[name].usage, h.tr.T("shell.help."+name, nil))
	}
	return nil
}
