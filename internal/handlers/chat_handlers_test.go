package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChatService struct {
	stream    string
	streamErr error
	lastReq   models.ChatRequest
}

func (m *mockChatService) StreamChat(_ context.Context, req models.ChatRequest) (io.ReadCloser, error) {
	m.lastReq = req
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return io.NopCloser(strings.NewReader(m.stream)), nil
}

func (m *mockChatService) Complete(_ context.Context, req models.ChatRequest) (string, error) {
	m.lastReq = req
	if m.streamErr != nil {
		return "", m.streamErr
	}
	return m.stream, nil
}

func (m *mockChatService) RemainingMessages(_ context.Context, _ uuid.UUID) (int, bool, error) {
	return 7, false, nil
}

func postChat(t *testing.T, h *ChatHandlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)
	return rec
}

func TestHandleChat_RelaysStreamVerbatim(t *testing.T) {
	const raw = "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n\ndata: [DONE]\n\n"
	svc := &mockChatService{stream: raw}
	h := NewChatHandlers(svc)

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"سلام"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, raw, rec.Body.String())
}

func TestHandleChat_RejectsEmptyHistory(t *testing.T) {
	h := NewChatHandlers(&mockChatService{})

	rec := postChat(t, h, `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"daily limit", services.ErrDailyLimitReached, http.StatusTooManyRequests, "محدودیت روزانه"},
		{"rate limited", services.ErrRateLimited, http.StatusTooManyRequests, "محدودیت تعداد درخواست‌ها"},
		{"quota exhausted", services.ErrQuotaExhausted, http.StatusPaymentRequired, "اعتبار استفاده از هوش مصنوعی"},
		{"gateway failure", &services.GatewayError{StatusCode: 502}, http.StatusInternalServerError, "خطا در دریافت پاسخ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewChatHandlers(&mockChatService{streamErr: tt.err})

			rec := postChat(t, h, `{"messages":[{"role":"user","content":"x"}]}`)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.wantMsg)
		})
	}
}

func TestHandleChat_BodyUserIDKeptForAnonymous(t *testing.T) {
	svc := &mockChatService{stream: "data: [DONE]\n\n"}
	h := NewChatHandlers(svc)

	bodyUser := uuid.New()
	rec := postChat(t, h, `{"messages":[{"role":"user","content":"x"}],"userId":"`+bodyUser.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.lastReq.UserID)
	assert.Equal(t, bodyUser, *svc.lastReq.UserID)
}

func TestHandleChat_TokenIdentityOverridesBody(t *testing.T) {
	svc := &mockChatService{stream: "data: [DONE]\n\n"}
	h := NewChatHandlers(svc)

	tokenUser := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"x"}],"userId":"`+uuid.NewString()+`"}`))
	req = req.WithContext(contextWithUser(req.Context(), tokenUser))
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastReq.UserID)
	assert.Equal(t, tokenUser, *svc.lastReq.UserID)
}

func TestHandleComplete_ReturnsMessage(t *testing.T) {
	svc := &mockChatService{stream: "پاسخ"}
	h := NewChatHandlers(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/complete",
		strings.NewReader(`{"messages":[{"role":"user","content":"x"}]}`))
	rec := httptest.NewRecorder()
	h.HandleComplete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CompleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "پاسخ", resp.Message)
}

func TestHandleLimits_RequiresAuth(t *testing.T) {
	h := NewChatHandlers(&mockChatService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/limits", nil)
	rec := httptest.NewRecorder()
	h.HandleLimits(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLimits_ReturnsRemaining(t *testing.T) {
	h := NewChatHandlers(&mockChatService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/limits", nil)
	req = req.WithContext(contextWithUser(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	h.HandleLimits(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.LimitsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.RemainingMessages)
	assert.False(t, resp.IsAdmin)
}
