package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

// Metrics - счётчики модерации и латентность HTTP в собственном реестре.
type Metrics struct {
	Registry *prometheus.Registry

	Transitions        *prometheus.CounterVec
	InvalidTransitions *prometheus.CounterVec
	ReportsFiled       prometheus.Counter
	ReportsResolved    *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_transitions_total",
			Help:      "Committed listing transitions by event.",
		}, []string{"event", "from", "to"}),
		InvalidTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_invalid_transitions_total",
			Help:      "Moderation actions rejected by the state machine.",
		}, []string{"event"}),
		ReportsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_filed_total",
			Help:      "User complaints accepted into report aggregates.",
		}),
		ReportsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_resolved_total",
			Help:      "Resolved report aggregates by outcome.",
		}, []string{"outcome"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.Transitions,
		m.InvalidTransitions,
		m.ReportsFiled,
		m.ReportsResolved,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Publish считает события модерации, реализует event.Publisher.
func (m *Metrics) Publish(_ context.Context, evt event.Event) {
	switch evt.Type {
	case event.ListingApproved, event.ListingRejected, event.ListingReopened, event.ListingExpired:
		m.Transitions.WithLabelValues(transitionEvent(evt), evt.From, evt.Status).Inc()
	case event.ReportFiled:
		m.ReportsFiled.Inc()
	case event.ReportAccepted:
		m.ReportsResolved.WithLabelValues("accepted").Inc()
	case event.ReportDismissed:
		m.ReportsResolved.WithLabelValues("dismissed").Inc()
	}
}

// transitionEvent различает отказ администратора и отказ по принятой жалобе.
func transitionEvent(evt event.Event) string {
	switch evt.Type {
	case event.ListingApproved:
		return "approve"
	case event.ListingRejected:
		if evt.From == "published" {
			return "report_accepted"
		}
		return "reject"
	case event.ListingReopened:
		return "reopen"
	default:
		return "expire"
	}
}

// Middleware замеряет латентность и считает отказы машины состояний.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())

		if v, ok := c.Get(response.ErrorKey); ok {
			if appErr, ok := v.(*apperror.AppError); ok && appErr.Code == apperror.ErrCodeInvalidTransition {
				m.InvalidTransitions.WithLabelValues(appErr.Details["event"]).Inc()
			}
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
