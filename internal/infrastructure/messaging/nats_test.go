package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix string
		typ    event.Type
		want   string
	}{
		{"", event.ListingApproved, "moderation.listing.approved"},
		{"market.", event.ReportFiled, "market.report.filed"},
		{"  classifieds ", event.ReportThresholdReached, "classifieds.report.threshold_reached"},
	}
	for _, tt := range tests {
		p := newPublisher(&fakeConn{}, tt.prefix)
		assert.Equal(t, tt.want, p.Subject(tt.typ))
	}
}

func TestPublish_SendsJSON(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "")

	p.Publish(context.Background(), event.Event{Type: event.ListingRejected, ListingID: 42, Status: "rejected", Reason: "spam"})

	require.Len(t, conn.msgs, 1)
	assert.Equal(t, "moderation.listing.rejected", conn.msgs[0].subject)

	var got event.Event
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &got))
	assert.Equal(t, int64(42), got.ListingID)
	assert.Equal(t, "spam", got.Reason)
}

func TestPublish_ErrorIsSwallowed(t *testing.T) {
	p := newPublisher(&fakeConn{err: errors.New("nats: connection closed")}, "")
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), event.Event{Type: event.ReportFiled})
	})
}
