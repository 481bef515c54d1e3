package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-training-admin/internal/application/session"
	"github.com/go-training-admin/internal/domain"
)

type mockSessionSvc struct{ mock.Mock }

func (m *mockSessionSvc) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) LoginWithGoogle(ctx context.Context, idToken, userAgent string) (*session.LoginResult, error) {
	args := m.Called(ctx, idToken, userAgent)
	if r, _ := args.Get(0).(*session.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSessionSvc) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionSvc) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func TestLogin_PassesUserAgent(t *testing.T) {
	svc := &mockSessionSvc{}
	result := &session.LoginResult{
		Bearer:       "jwt",
		RefreshToken: "rt",
		Session:      &domain.Session{SessionID: "s1", AdminID: "a1", Enable: true},
	}
	want := session.LoginRequest{Username: "awa", Password: "secret123", UserAgent: "admin-ui/1.0"}
	svc.On("Login", mock.Anything, want).Return(result, nil)
	h := NewSessionHandler(svc)

	body, _ := json.Marshal(map[string]string{"username": "awa", "password": "secret123"})
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body))
	r.Header.Set("User-Agent", "admin-ui/1.0")
	rr := httptest.NewRecorder()
	h.Login(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "jwt", resp.Bearer)
	assert.Equal(t, "rt", resp.RefreshToken)
	assert.Equal(t, "s1", resp.Session.SessionID)
	svc.AssertExpectations(t)
}

func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
	}
	for _, c := range cases {
		svc := &mockSessionSvc{}
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, c.err)
		h := NewSessionHandler(svc)
		body, _ := json.Marshal(map[string]string{"username": "awa", "password": "x"})
		rr := httptest.NewRecorder()
		h.Login(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewReader(body)))
		assert.Equal(t, c.want, rr.Code, c.err.Error())
	}
}

func TestLoginWithGoogle_RequiresToken(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})
	rr := httptest.NewRecorder()
	h.LoginWithGoogle(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/google", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginWithGoogle(t *testing.T) {
	svc := &mockSessionSvc{}
	result := &session.LoginResult{Bearer: "jwt", RefreshToken: "rt", Session: &domain.Session{SessionID: "s1"}}
	svc.On("LoginWithGoogle", mock.Anything, "google-id-token", mock.Anything).Return(result, nil)
	h := NewSessionHandler(svc)
	rr := httptest.NewRecorder()
	h.LoginWithGoogle(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/google",
		bytes.NewBufferString(`{"id_token":"google-id-token"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestRefresh_RequiresToken(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})
	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/refresh", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefresh_Rotates(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Refresh", mock.Anything, "old").Return("jwt2", "new", nil)
	h := NewSessionHandler(svc)
	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/refresh", bytes.NewBufferString(`{"refresh_token":"old"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "jwt2", resp.Bearer)
	assert.Equal(t, "new", resp.RefreshToken)
}

func TestGetCurrent_UsesTokenSession(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	sess := &domain.Session{SessionID: "sess1", AdminID: "a1", Enable: true, Admin: &domain.Admin{AdminID: "a1", Username: "awa"}}
	svc.On("GetCurrent", mock.Anything, "sess1").Return(sess, nil)
	h := NewSessionHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.GetCurrent), rr, bearerReq(t, p, http.MethodGet, "/v1/sessions", "a1", domain.RoleStaff, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp SessionEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "awa", resp.Session.Admin.Username)
}

func TestLogout(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Logout", mock.Anything, "sess1").Return(nil)
	h := NewSessionHandler(svc)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Logout), rr, bearerReq(t, p, http.MethodPost, "/v1/sessions/logout", "a1", domain.RoleStaff, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestLogout_MissingClaims(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})
	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
