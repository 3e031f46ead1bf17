package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/mocks"
	"github.com/segyhp/club-engine/internal/service"
)

const testCookie = "club_session"

var testNow = time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	members       *mocks.MockMemberRepository
	activities    *mocks.MockActivityRepository
	enrollments   *mocks.MockEnrollmentRepository
	compensations *mocks.MockCompensationRepository
	dueRepo       *mocks.MockDueRepository
	dues          *mockDueService
	generator     *mockGenerationService
	auth          *service.AuthService
	db            PingFunc
	cache         PingFunc
	router        *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		members:       new(mocks.MockMemberRepository),
		activities:    new(mocks.MockActivityRepository),
		enrollments:   new(mocks.MockEnrollmentRepository),
		compensations: new(mocks.MockCompensationRepository),
		dueRepo:       new(mocks.MockDueRepository),
		dues:          &mockDueService{now: testNow},
		generator:     new(mockGenerationService),
	}
	env.db = func(context.Context) error { return nil }
	env.cache = func(context.Context) error { return nil }

	memberSvc := service.NewMemberService(env.members, env.dueRepo)
	env.auth = service.NewAuthService(env.members, memberSvc, "handler-secret", time.Hour)
	v := NewValidator()

	env.router = NewRouter(Handlers{
		Health: NewHealthHandler(PingFunc(func(ctx context.Context) error { return env.db(ctx) }),
			PingFunc(func(ctx context.Context) error { return env.cache(ctx) }), time.Second),
		Auth:          NewAuthHandler(env.auth, v, testCookie, false),
		Members:       NewMemberHandler(memberSvc, v),
		Activities:    NewActivityHandler(service.NewActivityService(env.activities, env.members, env.enrollments), v),
		Enrollments:   NewEnrollmentHandler(service.NewEnrollmentService(env.enrollments, env.members, env.activities), v),
		Compensations: NewCompensationHandler(service.NewCompensationService(env.compensations, env.members, env.activities), v),
		Dues:          NewDueHandler(env.dues, env.generator, v, 10, domain.ProofMaxBytes),
	})

	t.Cleanup(func() {
		env.members.AssertExpectations(t)
		env.activities.AssertExpectations(t)
		env.enrollments.AssertExpectations(t)
		env.compensations.AssertExpectations(t)
		env.dues.AssertExpectations(t)
		env.generator.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) tokenFor(t *testing.T, m *domain.Member) string {
	t.Helper()
	token, err := e.auth.IssueToken(m)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var r io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Fields  []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"fields"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func fieldNames(env envelope) []string {
	names := make([]string, 0, len(env.Fields))
	for _, f := range env.Fields {
		names = append(names, f.Field)
	}
	return names
}
