package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/cache"
	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// In-memory stores and cache backend for exercising the handlers through
// a real router with real services behind them.

type stubUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *stubUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	cp := *user
	cp.HashedPassword = "hashed:" + cp.Password
	cp.Password = ""
	s.users[user.ID] = &cp
	return nil
}

func (s *stubUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *stubUserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	cp := *user
	if cp.Password != "" {
		cp.HashedPassword = "hashed:" + cp.Password
		cp.Password = ""
	}
	s.users[user.ID] = &cp
	return nil
}

func (s *stubUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type stubTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func newStubTaskStore() *stubTaskStore {
	return &stubTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *stubTaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *stubTaskStore) GetByID(_ context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *stubTaskStore) List(_ context.Context, ownerID uuid.UUID, filter store.TaskFilter, offset, limit int) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := s.match(ownerID, filter)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]*domain.Task, 0, end-offset)
	for _, t := range matched[offset:end] {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *stubTaskStore) Count(_ context.Context, ownerID uuid.UUID, filter store.TaskFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.match(ownerID, filter)), nil
}

func (s *stubTaskStore) Update(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[task.ID]
	if !ok || t.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *stubTaskStore) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *stubTaskStore) match(ownerID uuid.UUID, filter store.TaskFilter) []*domain.Task {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.IsCompleted != nil && t.IsCompleted != *filter.IsCompleted {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type stubBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newStubBackend() *stubBackend {
	return &stubBackend{data: make(map[string][]byte)}
}

func (b *stubBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (b *stubBackend) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

func (b *stubBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, k := range keys {
		delete(b.data, k)
	}
	return nil
}

func (b *stubBackend) DeleteByPrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.data {
		if strings.HasPrefix(k, prefix) {
			delete(b.data, k)
		}
	}
	return nil
}

// stubPasswordVerifier matches the "hashed:" scheme of the stub store.
type stubPasswordVerifier struct{}

func (stubPasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return auth.ErrAuthenticationFailed
	}
	return nil
}

// newTestRouter assembles the full API surface over in-memory backends,
// mirroring the production route layout.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	jwtSvc := auth.NewTestJWTService(
		"this-is-a-test-secret-at-least-32-chars",
		30*time.Minute,
		time.Now,
	)

	userStore := newStubUserStore()
	taskStore := newStubTaskStore()

	userSvc := service.NewUserService(userStore, nil)
	session := auth.NewSession(userStore, jwtSvc, stubPasswordVerifier{}, nil)
	taskSvc := service.NewTaskService(
		taskStore,
		cache.NewTaskCache(newStubBackend()),
		config.CacheConfig{RedisURL: "redis://localhost:6379/0", TTLSeconds: 300},
		config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
		nil,
	)

	authHandler := NewAuthHandler(userSvc, session)
	userHandler := NewUserHandler(userSvc)
	taskHandler := NewTaskHandler(taskSvc)
	authMw := middleware.NewAuthMiddleware(session)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})
		r.Group(func(r chi.Router) {
			r.Use(authMw.Authenticate)
			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.GetMe)
				r.Patch("/me", userHandler.UpdateMe)
				r.Delete("/me", userHandler.DeleteMe)
			})
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Patch("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})
		})
	})
	return r
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// registerAndLogin creates an account and returns its token pair.
func registerAndLogin(t *testing.T, handler http.Handler, email, username string) TokenResponse {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:    email,
		Username: username,
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    email,
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens TokenResponse
	decodeBody(t, rec, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return tokens
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestRouter(t)

	t.Run("register returns the public profile", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice",
			FullName: "Alice Doe",
			Password: "s3cret-pass",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var user UserResponse
		decodeBody(t, rec, &user)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice2",
			Password: "s3cret-pass",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid payload is rejected", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
			Email:    "not-an-email",
			Username: "bob",
			Password: "s3cret-pass",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login with wrong password is unauthorized", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh rotates the pair", func(t *testing.T) {
		tokens := registerAndLogin(t, handler, "carol@example.com", "carol")

		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/refresh", "", RefreshRequest{
			RefreshToken: tokens.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var next TokenResponse
		decodeBody(t, rec, &next)
		assert.NotEmpty(t, next.AccessToken)
		assert.NotEmpty(t, next.RefreshToken)
	})

	t.Run("access token rejected at refresh", func(t *testing.T) {
		tokens := registerAndLogin(t, handler, "dave@example.com", "dave")

		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/refresh", "", RefreshRequest{
			RefreshToken: tokens.AccessToken,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	handler := newTestRouter(t)
	tokens := registerAndLogin(t, handler, "alice@example.com", "alice")

	cases := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc123", want: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "refresh token is not an access token", token: tokens.RefreshToken, want: http.StatusUnauthorized},
		{name: "valid access token", token: tokens.AccessToken, want: http.StatusOK},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			} else if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestRouter(t)
	tokens := registerAndLogin(t, handler, "alice@example.com", "alice")

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/users/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me UserResponse
	decodeBody(t, rec, &me)
	assert.Equal(t, "alice", me.Username)

	fullName := "Alice Doe"
	rec = doJSON(t, handler, http.MethodPatch, "/api/v1/users/me", tokens.AccessToken, UpdateUserRequest{
		FullName: &fullName,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &me)
	assert.Equal(t, "Alice Doe", me.FullName)

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/users/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The account is gone; the still-valid token resolves to no user.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/users/me", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()

	handler := newTestRouter(t)
	tokens := registerAndLogin(t, handler, "alice@example.com", "alice")

	// Create
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/tasks/", tokens.AccessToken, CreateTaskRequest{
		Title:    "write report",
		Priority: "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created TaskResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, "todo", created.Status)
	assert.Equal(t, "high", created.Priority)

	// Get
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/tasks/"+created.ID.String(), tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Patch: completing forces done even with an explicit status.
	inProgress := "in_progress"
	completed := true
	rec = doJSON(t, handler, http.MethodPatch, "/api/v1/tasks/"+created.ID.String(), tokens.AccessToken, UpdateTaskRequest{
		Status:      &inProgress,
		IsCompleted: &completed,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated TaskResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, "done", updated.Status)
	assert.True(t, updated.IsCompleted)

	// List reflects the update.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/tasks/?is_completed=true", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page TaskListResponse
	decodeBody(t, rec, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Pages)

	// Delete, then the task is gone for good.
	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/tasks/"+created.ID.String(), tokens.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/tasks/"+created.ID.String(), tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/api/v1/tasks/"+created.ID.String(), tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskEndpointsValidation(t *testing.T) {
	t.Parallel()

	handler := newTestRouter(t)
	tokens := registerAndLogin(t, handler, "alice@example.com", "alice")

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{
			name:   "empty title",
			method: http.MethodPost,
			path:   "/api/v1/tasks/",
			body:   CreateTaskRequest{Title: ""},
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown priority",
			method: http.MethodPost,
			path:   "/api/v1/tasks/",
			body:   CreateTaskRequest{Title: "x", Priority: "urgent"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "malformed task id",
			method: http.MethodGet,
			path:   "/api/v1/tasks/not-a-uuid",
			want:   http.StatusBadRequest,
		},
		{
			name:   "bad status filter",
			method: http.MethodGet,
			path:   "/api/v1/tasks/?status=bogus",
			want:   http.StatusBadRequest,
		},
		{
			name:   "bad page value",
			method: http.MethodGet,
			path:   "/api/v1/tasks/?page=zero",
			want:   http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, handler, tc.method, tc.path, tokens.AccessToken, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTaskOwnershipIsolation(t *testing.T) {
	t.Parallel()

	handler := newTestRouter(t)
	alice := registerAndLogin(t, handler, "alice@example.com", "alice")
	mallory := registerAndLogin(t, handler, "mallory@example.com", "mallory")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/tasks/", alice.AccessToken, CreateTaskRequest{
		Title: "private plans",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskResponse
	decodeBody(t, rec, &created)

	taskPath := fmt.Sprintf("/api/v1/tasks/%s", created.ID)

	// Another user sees 404 on every verb, identical to a missing task.
	rec = doJSON(t, handler, http.MethodGet, taskPath, mallory.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	title := "hijacked"
	rec = doJSON(t, handler, http.MethodPatch, taskPath, mallory.AccessToken, UpdateTaskRequest{Title: &title})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, taskPath, mallory.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// And their own listing never includes it.
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/tasks/", mallory.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page TaskListResponse
	decodeBody(t, rec, &page)
	assert.Empty(t, page.Items)

	// The owner still has it.
	rec = doJSON(t, handler, http.MethodGet, taskPath, alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
