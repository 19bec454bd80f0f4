package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfworks/fittings/internal/auth"
	"github.com/golfworks/fittings/internal/db/dbtest"
	"github.com/golfworks/fittings/internal/events"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/repository"
	"github.com/golfworks/fittings/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	store    *repository.Store
	tokens   *auth.TokenManager
	admin    *model.User
	consumer *model.User
	other    *model.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repository.NewStore(dbtest.Open(t))
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	rec := &events.Recorder{}

	swings, err := service.NewSwingService(store, rec, model.StatusSubmitted)
	require.NoError(t, err)

	s := &testServer{store: store, tokens: tokens}
	s.router = NewRouter(Deps{
		Pinger:         PingFunc(func(context.Context) error { return nil }),
		Tokens:         tokens,
		Identity:       service.NewIdentityService(store.Users, tokens),
		Fittings:       service.NewFittingService(store, rec, service.FittingOptions{}),
		Swings:         swings,
		GettingStarted: service.NewGettingStartedService(store, rec),
		AdminTasks:     service.NewAdminTaskService(store),
	})

	s.admin = s.seedUser(t, "admin@example.com", model.RoleAdmin)
	s.consumer = s.seedUser(t, "golfer@example.com", model.RoleConsumer)
	s.other = s.seedUser(t, "other@example.com", model.RoleConsumer)
	return s
}

func (s *testServer) seedUser(t *testing.T, email string, role model.Role) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	u := &model.User{Name: "Test " + string(role), Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, s.store.Users.Create(context.Background(), u))
	return u
}

func (s *testServer) token(t *testing.T, u *model.User) string {
	t.Helper()
	tok, err := s.tokens.Issue(u)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func (s *testServer) createFitting(t *testing.T, owner *model.User, date string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/fitting-request", s.token(t, owner), gin.H{
		"userId": owner.ID.String(),
		"date":   date,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func TestRouter_Healthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewRouter(Deps{Pinger: PingFunc(func(context.Context) error { return errors.New("refused") })})
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "New Golfer", "email": "new@example.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotEmpty(t, body["userId"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Again", "email": "NEW@example.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already in use", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "new@example.com", "password": "pw12345"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "consumer", body["role"])
	tok := body["token"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new@example.com", decode(t, w)["email"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "new@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "UNAUTHORIZED", body["error"])
	assert.Equal(t, "No token provided", body["message"])

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode(t, w)["message"])
}

func TestRouter_ConsumerCannotUseAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.createFitting(t, s.consumer, "2024-06-01T10:00:00Z")
	tok := s.token(t, s.consumer)

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPatch, "/api/v1/fitting-request/" + id + "/scheduled", nil},
		{http.MethodDelete, "/api/v1/fitting-request/" + id, nil},
		{http.MethodGet, "/api/v1/fitting-requests", nil},
		{http.MethodGet, "/api/v1/auth/users", nil},
		{http.MethodGet, "/api/v1/task-types", nil},
		{http.MethodPost, "/api/v1/getting-started", gin.H{"message": "hi"}},
		{http.MethodPut, "/api/v1/fitting-request/" + id, gin.H{"status": "completed"}},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := s.do(t, tc.method, tc.path, tok, tc.body)
			assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
			assert.Equal(t, "FORBIDDEN", decode(t, w)["error"])
		})
	}
}

func TestRouter_ConsumerOwnership(t *testing.T) {
	s := newTestServer(t)
	id := s.createFitting(t, s.consumer, "2024-06-01T10:00:00Z")
	otherTok := s.token(t, s.other)

	w := s.do(t, http.MethodGet, "/api/v1/fitting-request/"+id, otherTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/fitting-requests/"+s.consumer.ID.String(), otherTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/fitting-request", otherTok, gin.H{
		"userId": s.consumer.ID.String(), "date": "2024-06-02T10:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/fitting-request/"+id, s.token(t, s.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, s.consumer.Email, user["email"])
}

func TestRouter_FittingLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createFitting(t, s.consumer, "2024-06-01T10:00:00Z")
	adminTok := s.token(t, s.admin)

	w := s.do(t, http.MethodPatch, "/api/v1/fitting-request/"+id+"/scheduled", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "scheduled", body["status"])
	assert.Len(t, body["fittingProgresses"], 2)

	w = s.do(t, http.MethodPatch, "/api/v1/fitting-request/"+id+"/bogus", adminTok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "Invalid status")

	w = s.do(t, http.MethodPut, "/api/v1/fitting-request/"+id, s.token(t, s.consumer), gin.H{"comments": "bring irons"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "bring irons", decode(t, w)["comments"])

	w = s.do(t, http.MethodDelete, "/api/v1/fitting-request/"+id, adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fitting request deleted successfully", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/api/v1/fitting-request/"+id, adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RescheduleConflict(t *testing.T) {
	s := newTestServer(t)
	s.createFitting(t, s.other, "2024-06-01T08:00:00Z")
	id := s.createFitting(t, s.consumer, "2024-05-20T10:00:00Z")
	tok := s.token(t, s.consumer)

	w := s.do(t, http.MethodPatch, "/api/v1/fitting-request/"+id+"/reschedule", tok, gin.H{
		"appointmentTime": "2024-06-01T15:00:00Z",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "There is already a fitting scheduled for this day", decode(t, w)["message"])

	w = s.do(t, http.MethodPatch, "/api/v1/fitting-request/"+id+"/reschedule", tok, gin.H{
		"appointmentTime": "2024-07-04T09:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2024-07-04T09:00:00Z", decode(t, w)["date"])

	w = s.do(t, http.MethodPatch, "/api/v1/fitting-request/"+id+"/reschedule", tok, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ListPagination(t *testing.T) {
	s := newTestServer(t)
	for day := 1; day <= 12; day++ {
		s.createFitting(t, s.consumer, time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC).Format(time.RFC3339))
	}

	w := s.do(t, http.MethodGet, "/api/v1/fitting-requests/"+s.consumer.ID.String()+"?page=3&limit=5", s.token(t, s.consumer), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Len(t, body["fittingRequests"], 2)
	meta := body["pagination"].(map[string]any)
	assert.EqualValues(t, 12, meta["totalItems"])
	assert.EqualValues(t, 3, meta["currentPage"])
	assert.EqualValues(t, 3, meta["totalPages"])
	assert.EqualValues(t, 5, meta["itemsPerPage"])

	w = s.do(t, http.MethodGet, "/api/v1/fitting-requests?status=canceled", s.token(t, s.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["fittingRequests"])
}

func TestRouter_GettingStarted(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.token(t, s.admin)

	w := s.do(t, http.MethodPost, "/api/v1/getting-started", adminTok, gin.H{"message": "Welcome"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode(t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/v1/getting-started", adminTok, gin.H{"message": "Welcome back"})
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode(t, w)["id"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/getting-started/active", s.token(t, s.consumer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, second, decode(t, w)["id"])

	w = s.do(t, http.MethodDelete, "/api/v1/getting-started/"+second, adminTok, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete the active getting started message", decode(t, w)["message"])

	w = s.do(t, http.MethodDelete, "/api/v1/getting-started/"+first, adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AdminTasks(t *testing.T) {
	s := newTestServer(t)
	id := s.createFitting(t, s.consumer, "2024-06-01T10:00:00Z")
	adminTok := s.token(t, s.admin)

	w := s.do(t, http.MethodGet, "/api/v1/task-type/bogus", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/task", adminTok, gin.H{"fittingRequestId": id, "task": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/task-types", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var types []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &types))
	require.NotEmpty(t, types)

	w = s.do(t, http.MethodPost, "/api/v1/task", adminTok, gin.H{"fittingRequestId": id, "task": types[0]})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/fitting-request/"+id+"/tasks", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
}

func TestRouter_SwingAnalysis(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, s.consumer)

	w := s.do(t, http.MethodPost, "/api/v1/swing-analysis", tok, gin.H{"date": "2024-06-01T10:00:00Z"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = s.do(t, http.MethodPatch, "/api/v1/swing-analysis/"+id+"/prepping", s.token(t, s.admin), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/swing-analysis/user/"+s.consumer.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["swingAnalyses"], 1)
}
