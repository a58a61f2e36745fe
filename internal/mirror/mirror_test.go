package mirror_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"student-directory/internal/apiclient"
	"student-directory/internal/auth"
	"student-directory/internal/config"
	"student-directory/internal/metrics"
	"student-directory/internal/mirror"
	"student-directory/internal/student"
	"student-directory/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@email.com"
	adminPassword = "abcd1234"
)

func testAdminConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret-key-for-testing",
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		AdminName:     "Admin",
	}
}

// startServer runs the real API surface against in-memory repositories.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	authRepo := auth.NewMemoryRepository()
	authService := auth.NewService(authRepo)
	require.NoError(t, authService.EnsureAdmin(context.Background(), testAdminConfig()))
	authHandler := auth.NewHandler(authService, testAdminConfig().JWTSecret, logger)

	studentRepo := student.NewMemoryRepository()
	studentService := student.NewService(studentRepo)
	studentHandler := student.NewHandler(studentService, logger, metrics.NewMock())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		studentHandler.RegisterRoutes(r, auth.Middleware(testAdminConfig().JWTSecret, logger))
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func newMirror(t *testing.T, server *httptest.Server, notifier sync.Notifier) *mirror.Mirror {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client, err := apiclient.New(server.URL, logger)
	require.NoError(t, err)
	return mirror.New(client, notifier, logger, metrics.NewMock())
}

func intPtr(v int) *int { return &v }

func TestMirrorLoad(t *testing.T) {
	server := startServer(t)
	m := newMirror(t, server, sync.NewMemoryNotifier())

	require.NoError(t, m.Load(context.Background()))
	assert.Empty(t, m.Students())
	assert.False(t, m.Loading())
	assert.Empty(t, m.LastError())
}

func TestMirrorLoadFailureKeepsSnapshot(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Failed to fetch students"}`, http.StatusInternalServerError)
	}))
	defer failing.Close()

	m := newMirror(t, failing, sync.NewMemoryNotifier())
	m.AddLocal(student.Student{ID: 1, RollNo: 101, Name: "Asha", Class: "10A"})

	err := m.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error fetching students", m.LastError())
	assert.Len(t, m.Students(), 1, "failed load must keep the previous snapshot")
}

func TestMirrorLocalMutators(t *testing.T) {
	m := newMirror(t, httptest.NewUnstartedServer(nil), sync.NewMemoryNotifier())

	m.AddLocal(student.Student{ID: 1, RollNo: 101, Name: "Asha", Class: "10A"})
	m.AddLocal(student.Student{ID: 2, RollNo: 101, Name: "Binod", Class: "10B"})

	m.RemoveLocal(101, "10A")

	students := m.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "Binod", students[0].Name)
}

func TestMirrorCrossInstanceInvalidation(t *testing.T) {
	server := startServer(t)
	notifier := sync.NewMemoryNotifier()
	defer notifier.Close()

	ctx := context.Background()

	admin := newMirror(t, server, notifier)
	viewer := newMirror(t, server, notifier)

	require.NoError(t, viewer.Start(ctx))
	defer viewer.Close()
	require.NoError(t, viewer.Load(ctx))
	require.Empty(t, viewer.Students())

	require.NoError(t, admin.Login(ctx, adminEmail, adminPassword))
	assert.True(t, admin.SignedIn())

	require.NoError(t, admin.Create(ctx, student.CreateStudentRequest{
		RollNo: intPtr(101),
		Name:   "Asha",
		Class:  "10A",
	}))

	// Memory notifier delivers synchronously, so the viewer has reloaded.
	students := viewer.Students()
	require.Len(t, students, 1)
	assert.Equal(t, "Asha", students[0].Name)

	require.NoError(t, admin.Delete(ctx, 101, "10A"))
	assert.Empty(t, viewer.Students())
	assert.Empty(t, admin.Students(), "optimistic removal applies locally too")
}

func TestMirrorSession(t *testing.T) {
	server := startServer(t)
	m := newMirror(t, server, sync.NewMemoryNotifier())
	ctx := context.Background()

	m.RefreshSession(ctx)
	assert.False(t, m.SignedIn(), "anonymous session resolves to signed out")

	require.NoError(t, m.Login(ctx, adminEmail, adminPassword))
	m.RefreshSession(ctx)
	require.True(t, m.SignedIn())
	require.NotNil(t, m.Identity())
	assert.Equal(t, adminEmail, m.Identity().Email)

	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.SignedIn())
}

func TestMirrorCreateUnauthenticated(t *testing.T) {
	server := startServer(t)
	m := newMirror(t, server, sync.NewMemoryNotifier())
	ctx := context.Background()

	err := m.Create(ctx, student.CreateStudentRequest{
		RollNo: intPtr(101),
		Name:   "Asha",
		Class:  "10A",
	})
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	require.NoError(t, m.Load(ctx))
	assert.Empty(t, m.Students(), "rejected create must not persist")
}
