package listing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

// Deps - общие зависимости use case'ов объявлений.
type Deps struct {
	Tx          repository.Transactor
	Listings    repository.ListingRepository
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

func (d Deps) publish(ctx context.Context, evt event.Event) {
	if d.Events != nil {
		d.Events.Publish(ctx, evt)
	}
}

type transitionFunc func(l *entity.Listing, now time.Time) (*entity.Transition, error)

// transition применяет событие машины состояний под блокировкой записи
// и пишет аудит в той же транзакции. Событие уходит только после коммита.
func (d Deps) transition(ctx context.Context, id int64, actor valueobject.Actor, evtType event.Type, fn transitionFunc) (*entity.Listing, error) {
	var (
		updated *entity.Listing
		tr      *entity.Transition
	)
	now := d.now()

	err := d.Tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := d.Listings.Update(ctx, id, func(l *entity.Listing) error {
			t, err := fn(l, now)
			if err != nil {
				return err
			}
			tr = t
			return nil
		})
		if err != nil {
			return err
		}
		updated = l
		return d.Transitions.Record(ctx, tr)
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"listing_id": id,
			"event":      evtType,
			"actor_id":   actor.UserID,
			"actor_role": actor.Role,
		}).WithError(err).Debug("переход не выполнен")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"listing_id": id,
		"from":       tr.From,
		"to":         tr.To,
		"event":      tr.Event,
		"actor_id":   actor.UserID,
		"actor_role": actor.Role,
	}).Info("переход объявления")

	d.publish(ctx, event.FromListing(evtType, updated, tr))
	return updated, nil
}
