package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
)

type recorder struct {
	got []event.Type
}

func (r *recorder) Publish(_ context.Context, evt event.Event) {
	r.got = append(r.got, evt.Type)
}

type panicking struct{}

func (panicking) Publish(context.Context, event.Event) {
	panic("subscriber down")
}

func TestFanout_DeliversToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := NewFanout(a, nil, b)
	assert.Equal(t, 2, f.Len())

	f.Publish(context.Background(), event.Event{Type: event.ListingApproved})
	f.Publish(context.Background(), event.Event{Type: event.ReportFiled})

	assert.Equal(t, []event.Type{event.ListingApproved, event.ReportFiled}, a.got)
	assert.Equal(t, a.got, b.got)
}

func TestFanout_PanicIsolated(t *testing.T) {
	after := &recorder{}
	f := NewFanout(panicking{}, after)

	assert.NotPanics(t, func() {
		f.Publish(context.Background(), event.Event{Type: event.ListingRejected})
	})
	assert.Equal(t, []event.Type{event.ListingRejected}, after.got)
}
