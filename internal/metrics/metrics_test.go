package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

func TestPublish_CountsModerationEvents(t *testing.T) {
	m := New("test")
	ctx := context.Background()

	m.Publish(ctx, event.Event{Type: event.ListingApproved, From: "pending", Status: "published"})
	m.Publish(ctx, event.Event{Type: event.ListingRejected, From: "published", Status: "rejected"})
	m.Publish(ctx, event.Event{Type: event.ListingRejected, From: "pending", Status: "rejected"})
	m.Publish(ctx, event.Event{Type: event.ReportFiled})
	m.Publish(ctx, event.Event{Type: event.ReportFiled})
	m.Publish(ctx, event.Event{Type: event.ReportDismissed})
	m.Publish(ctx, event.Event{Type: event.ListingSubmitted, Status: "pending"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("approve", "pending", "published")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("report_accepted", "published", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("reject", "pending", "rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsFiled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsResolved.WithLabelValues("dismissed")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Transitions))
}

func TestMiddleware_CountsInvalidTransitions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	r := gin.New()
	r.Use(m.Middleware())
	r.PATCH("/listings/:id/approve", func(c *gin.Context) {
		response.Error(c, apperror.InvalidTransition("published", "approve"))
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/listings/1/approve", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidTransitions.WithLabelValues("approve")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_moderation_invalid_transitions_total"))
}
