// Package mirror holds a local, non-authoritative copy of the student list.
// The mirror is an explicitly owned state container: Load, AddLocal and
// RemoveLocal are its only mutators, and every instance converges with the
// store either by an optimistic local edit after a successful write or by a
// full reload when an invalidation event arrives.
package mirror

import (
	"context"
	"errors"
	"log/slog"
	stdsync "sync"

	"student-directory/internal/apiclient"
	"student-directory/internal/metrics"
	"student-directory/internal/student"
	"student-directory/internal/sync"
)

type Mirror struct {
	client   *apiclient.Client
	notifier sync.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu          stdsync.Mutex
	students    []student.Student
	loading     bool
	lastErr     string
	signedIn    bool
	identity    *apiclient.Identity
	unsubscribe func()
}

func New(client *apiclient.Client, notifier sync.Notifier, logger *slog.Logger, m *metrics.Metrics) *Mirror {
	return &Mirror{
		client:   client,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// Start subscribes to invalidation events. On either signal the mirror
// reloads itself; a failed reload is recorded and repaired by the next one.
func (m *Mirror) Start(ctx context.Context) error {
	unsubscribe, err := m.notifier.Subscribe(func(event sync.Event) {
		if event.Kind != sync.StudentAdded && event.Kind != sync.StudentDeleted {
			return
		}
		m.logger.Info("invalidation event received", "kind", event.Kind, "at", event.At)
		m.metrics.RecordSyncReceived(ctx)
		if err := m.Load(ctx); err != nil {
			m.logger.Warn("reload after invalidation failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	m.unsubscribe = unsubscribe
	return nil
}

// Load fetches the full list and replaces the local sequence wholesale.
// On failure the previous snapshot is kept and the error recorded.
func (m *Mirror) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()

	students, err := m.client.ListStudents(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.lastErr = "Error fetching students"
		return err
	}
	m.students = students
	return nil
}

// AddLocal appends a record without re-fetching.
func (m *Mirror) AddLocal(s student.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = append(m.students, s)
}

// RemoveLocal filters out any record matching the natural key.
func (m *Mirror) RemoveLocal(rollNo int, class string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.students[:0]
	for _, s := range m.students {
		if !(s.RollNo == rollNo && s.Class == class) {
			kept = append(kept, s)
		}
	}
	m.students = kept
}

// Create persists a record through the service, applies the optimistic
// local append and publishes the invalidation signal for other instances.
func (m *Mirror) Create(ctx context.Context, req student.CreateStudentRequest) error {
	id, err := m.client.CreateStudent(ctx, req)
	if err != nil {
		return err
	}

	created := student.Student{
		ID:    id,
		Name:  req.Name,
		Class: req.Class,
		PhNo:  req.PhNo,
		Image: req.Image,
	}
	if req.RollNo != nil {
		created.RollNo = *req.RollNo
	}
	m.AddLocal(created)

	if err := m.notifier.Publish(ctx, sync.NewEvent(sync.StudentAdded)); err != nil {
		m.logger.Warn("failed to publish invalidation event", "error", err)
	} else {
		m.metrics.RecordSyncPublished(ctx)
	}
	return nil
}

// Delete removes a record through the service, applies the optimistic
// local removal and publishes the invalidation signal.
func (m *Mirror) Delete(ctx context.Context, rollNo int, class string) error {
	if err := m.client.DeleteStudent(ctx, rollNo, class); err != nil {
		return err
	}

	m.RemoveLocal(rollNo, class)

	if err := m.notifier.Publish(ctx, sync.NewEvent(sync.StudentDeleted)); err != nil {
		m.logger.Warn("failed to publish invalidation event", "error", err)
	} else {
		m.metrics.RecordSyncPublished(ctx)
	}
	return nil
}

// Login authenticates and records the signed-in identity.
func (m *Mirror) Login(ctx context.Context, email, password string) error {
	identity, err := m.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	m.setIdentity(identity)
	return nil
}

// Logout clears the session and the signed-in state.
func (m *Mirror) Logout(ctx context.Context) error {
	err := m.client.Logout(ctx)
	m.setIdentity(nil)
	return err
}

// CheckSession refreshes the session mirror unless already signed in.
func (m *Mirror) CheckSession(ctx context.Context) {
	m.mu.Lock()
	signedIn := m.signedIn
	m.mu.Unlock()
	if signedIn {
		return
	}
	m.RefreshSession(ctx)
}

// RefreshSession asks the gate who the caller is. Any non-success response
// means signed out.
func (m *Mirror) RefreshSession(ctx context.Context) {
	identity, err := m.client.Session(ctx)
	if err != nil {
		var apiErr *apiclient.APIError
		if !errors.As(err, &apiErr) {
			m.logger.Warn("session check failed", "error", err)
		}
		m.setIdentity(nil)
		return
	}
	m.setIdentity(identity)
}

func (m *Mirror) setIdentity(identity *apiclient.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
	m.signedIn = identity != nil
}

// Students returns a copy of the current snapshot.
func (m *Mirror) Students() []student.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]student.Student, len(m.students))
	copy(out, m.students)
	return out
}

func (m *Mirror) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Mirror) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Mirror) SignedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signedIn
}

func (m *Mirror) Identity() *apiclient.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// Close drops the invalidation subscription.
func (m *Mirror) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
