package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsService owns the Prometheus collectors for the API.
type MetricsService struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	enrollmentsCreated prometheus.Counter
	lessonsCompleted   prometheus.Counter
	coursesCompleted   prometheus.Counter
}

func NewMetricsService(reg prometheus.Registerer) *MetricsService {
	factory := promauto.With(reg)

	return &MetricsService{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Catalog cache misses.",
		}),
		enrollmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrollments_created_total",
			Help: "Course enrollments created.",
		}),
		lessonsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "lessons_completed_total",
			Help: "Lesson completions recorded.",
		}),
		coursesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "courses_completed_total",
			Help: "Enrollments that reached completed status.",
		}),
	}
}

func (m *MetricsService) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *MetricsService) CacheHit()  { m.cacheHits.Inc() }
func (m *MetricsService) CacheMiss() { m.cacheMisses.Inc() }

func (m *MetricsService) EnrollmentCreated() { m.enrollmentsCreated.Inc() }
func (m *MetricsService) LessonCompleted()   { m.lessonsCompleted.Inc() }
func (m *MetricsService) CourseCompleted()   { m.coursesCompleted.Inc() }
