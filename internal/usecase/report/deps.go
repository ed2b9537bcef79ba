package report

import (
	"context"
	"time"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
)

// Deps - общие зависимости use case'ов жалоб.
type Deps struct {
	Tx          repository.Transactor
	Listings    repository.ListingRepository
	Reports     repository.ReportRepository
	Transitions repository.TransitionRepository
	Events      event.Publisher
	Now         func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

func (d Deps) publish(ctx context.Context, evts ...event.Event) {
	if d.Events == nil {
		return
	}
	for _, evt := range evts {
		d.Events.Publish(ctx, evt)
	}
}
