package notify

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

// Fanout рассылает событие всем подписчикам по очереди.
// Паника одного подписчика не мешает остальным и не доходит до use case.
type Fanout struct {
	subscribers []event.Publisher
}

func NewFanout(subscribers ...event.Publisher) *Fanout {
	f := &Fanout{}
	for _, s := range subscribers {
		f.Add(s)
	}
	return f
}

// Add не потокобезопасен, вызывается только при сборке приложения.
func (f *Fanout) Add(s event.Publisher) {
	if s != nil {
		f.subscribers = append(f.subscribers, s)
	}
}

func (f *Fanout) Len() int {
	return len(f.subscribers)
}

func (f *Fanout) Publish(ctx context.Context, evt event.Event) {
	for _, s := range f.subscribers {
		deliver(ctx, s, evt)
	}
}

func deliver(ctx context.Context, s event.Publisher, evt event.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().WithField("event", evt.Type).Errorf("panic в подписчике событий: %v\n%s", r, debug.Stack())
		}
	}()
	s.Publish(ctx, evt)
}
