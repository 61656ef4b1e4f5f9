package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/student"
)

const (
	bulkKindStudents = "students"
	bulkKindChapters = "chapters"
)

// metrics holds the collectors of one server; each server gets its own registry.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	logins   *prometheus.CounterVec
	bulkRows *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schooldash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schooldash",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		bulkRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schooldash",
			Name:      "bulk_rows_total",
			Help:      "Bulk upload rows by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	m.registry.MustRegister(m.requests, m.logins, m.bulkRows)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// middleware counts every request once its response is written.
func (m *metrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := next(ctx); err != nil && !ctx.Response().Committed {
				ctx.Error(err)
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(route, ctx.Request().Method, strconv.Itoa(ctx.Response().Status)).Inc()
			return nil
		}
	}
}

func (m *metrics) login(ok bool) {
	m.logins.WithLabelValues(outcome(ok)).Inc()
}

func (m *metrics) bulkRowObserver(kind string) student.BulkObserver {
	return func(ok bool) {
		m.bulkRows.WithLabelValues(kind, outcome(ok)).Inc()
	}
}

func (m *metrics) bulkReport(kind string, report *core.BulkReport) {
	m.bulkRows.WithLabelValues(kind, outcome(true)).Add(float64(report.Succeeded))
	m.bulkRows.WithLabelValues(kind, outcome(false)).Add(float64(report.Failed()))
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
