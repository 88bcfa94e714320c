package application

import (
	"go.uber.org/zap"

	"futbal/internal/ports/input"
	"futbal/internal/ports/output"
)

var (
	_ input.SessionUseCase       = (*SessionStore)(nil)
	_ input.DirectoryUseCase     = (*EventDirectory)(nil)
	_ input.ParticipationUseCase = (*ParticipationController)(nil)
	_ input.OwnerUseCase         = (*EventOwnerConsole)(nil)
	_ input.ProfileUseCase       = (*ProfileManager)(nil)
)

// Backend is everything the client needs from the remote authority.
type Backend interface {
	output.EventAPI
	output.AuthAPI
	output.ProfileAPI
}

// App wires the components around one bus: output adapters -> application -> presentation.
type App struct {
	Bus           *Bus
	Session       *SessionStore
	Directory     *EventDirectory
	Participation *ParticipationController
	Owner         *EventOwnerConsole
	Profile       *ProfileManager
}

func New(backend Backend, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := NewBus(logger.Named("bus"))
	session := NewSessionStore(backend, bus, logger.Named("session"))
	directory := NewEventDirectory(backend, logger.Named("directory"))
	profile := NewProfileManager(backend, backend, session, logger.Named("profile"))

	directory.Attach(bus)
	profile.Attach(bus)

	return &App{
		Bus:           bus,
		Session:       session,
		Directory:     directory,
		Participation: NewParticipationController(backend, session, directory, bus, logger.Named("participation")),
		Owner:         NewEventOwnerConsole(backend, session, directory, bus, logger.Named("owner")),
		Profile:       profile,
	}
}
