package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	studentsAdded   metric.Int64Counter
	studentsDeleted metric.Int64Counter
	listViews       metric.Int64Counter
	syncPublished   metric.Int64Counter
	syncReceived    metric.Int64Counter
	dbQueryDuration metric.Float64Histogram
	dbQueryErrors   metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.studentsAdded, err = meter.Int64Counter(
		"student_directory.students.added",
		metric.WithDescription("Total number of student records created"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsDeleted, err = meter.Int64Counter(
		"student_directory.students.deleted",
		metric.WithDescription("Total number of student records deleted"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.listViews, err = meter.Int64Counter(
		"student_directory.students.list_viewed",
		metric.WithDescription("Total number of times the student list was fetched"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.syncPublished, err = meter.Int64Counter(
		"student_directory.sync.published",
		metric.WithDescription("Total number of mirror-invalidation events published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	m.syncReceived, err = meter.Int64Counter(
		"student_directory.sync.received",
		metric.WithDescription("Total number of mirror-invalidation events received"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	m.dbQueryDuration, err = meter.Float64Histogram(
		"student_directory.db.query_duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.dbQueryErrors, err = meter.Int64Counter(
		"student_directory.db.query_errors",
		metric.WithDescription("Total number of failed database queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordStudentAdded(ctx context.Context) {
	if m != nil && m.studentsAdded != nil {
		m.studentsAdded.Add(ctx, 1)
	}
}

func (m *Metrics) RecordStudentDeleted(ctx context.Context) {
	if m != nil && m.studentsDeleted != nil {
		m.studentsDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordListViewed(ctx context.Context) {
	if m != nil && m.listViews != nil {
		m.listViews.Add(ctx, 1)
	}
}

func (m *Metrics) RecordSyncPublished(ctx context.Context) {
	if m != nil && m.syncPublished != nil {
		m.syncPublished.Add(ctx, 1)
	}
}

func (m *Metrics) RecordSyncReceived(ctx context.Context) {
	if m != nil && m.syncReceived != nil {
		m.syncReceived.Add(ctx, 1)
	}
}

func (m *Metrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("table", table),
	)
	if m.dbQueryDuration != nil {
		m.dbQueryDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if err != nil && m.dbQueryErrors != nil {
		m.dbQueryErrors.Add(ctx, 1, attrs)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
