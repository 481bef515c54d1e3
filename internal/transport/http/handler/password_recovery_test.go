package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/go-training-admin/internal/application/recovery"
	"github.com/go-training-admin/internal/domain"
)

type mockRecoverySvc struct{ mock.Mock }

func (m *mockRecoverySvc) Request(ctx context.Context, in recovery.RequestInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockRecoverySvc) Reset(ctx context.Context, in recovery.ResetInput) error {
	return m.Called(ctx, in).Error(0)
}

func recoveryReq(action, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/v1/password-recovery/"+action, bytes.NewBufferString(body))
	return withChiParam(r, "action", action)
}

func TestPasswordRecovery_Request(t *testing.T) {
	svc := &mockRecoverySvc{}
	svc.On("Request", mock.Anything, recovery.RequestInput{Email: "awa@example.com"}).Return(nil)
	h := NewPasswordRecoveryHandler(svc)

	rr := httptest.NewRecorder()
	h.Action(rr, recoveryReq("request", `{"email":"awa@example.com"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestPasswordRecovery_ResetWrongCode(t *testing.T) {
	svc := &mockRecoverySvc{}
	svc.On("Reset", mock.Anything, mock.Anything).Return(domain.ErrUnauthorized)
	h := NewPasswordRecoveryHandler(svc)

	rr := httptest.NewRecorder()
	h.Action(rr, recoveryReq("reset", `{"email":"awa@example.com","code":"000000","new_password":"newpass123"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPasswordRecovery_UnknownAction(t *testing.T) {
	h := NewPasswordRecoveryHandler(&mockRecoverySvc{})
	rr := httptest.NewRecorder()
	h.Action(rr, recoveryReq("validate-code", `{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
