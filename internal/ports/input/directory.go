package input

import (
	"context"
	"iter"

	"futbal/internal/domain/entities"
)

type DirectoryUseCase interface {
	Refresh(ctx context.Context) ([]entities.Event, error)
	SetFilter(searchText string, eventType entities.EventType)
	List() iter.Seq[entities.Event]
	Get(id uint) (entities.Event, bool)
	Loaded() bool
}
