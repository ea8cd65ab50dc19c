package sharedlog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationMiddleware(t *testing.T) {
	l, _ := newTestLogger(t, debugConfig(t))

	var calls int
	var got Fields
	h := l.CorrelationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		got = FieldsFromContext(r.Context())
		l.Ctx(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, Fields{FieldRequestID: "123", FieldPath: "/test", FieldMethod: http.MethodGet}, got)

	require.NoError(t, l.Close())
	out := readLog(t, l.Config().CombinedLogsDir, combinedSuffix)
	assert.Contains(t, out, "debug: request started")
	assert.Contains(t, out, "info: handled")
	assert.Contains(t, out, "requestId=123")
	assert.Contains(t, out, "path=/test")
	assert.Contains(t, out, "method=GET")
}

func TestCorrelationMiddleware_GeneratesID(t *testing.T) {
	h := Nop().CorrelationMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items", nil))

	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err)
}

func TestCorrelationMiddleware_UsesChiRequestID(t *testing.T) {
	var chiID, logged string
	inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		chiID = middleware.GetReqID(r.Context())
		logged, _ = FieldsFromContext(r.Context())[FieldRequestID].(string)
	})
	h := middleware.RequestID(Nop().CorrelationMiddleware()(inner))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, chiID)
	assert.Equal(t, chiID, logged)
	assert.Equal(t, chiID, rec.Header().Get(HeaderRequestID))
}

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FieldsFromContext(ctx))

	ctx = ContextWithFields(ctx, Fields{"a": 1, "b": 1})
	ctx = ContextWithFields(ctx, Fields{"b": 2})
	assert.Equal(t, Fields{"a": 1, "b": 2}, FieldsFromContext(ctx))

	l := Nop()
	assert.Same(t, l, l.Ctx(context.Background()))
	assert.Equal(t, Fields{"a": 1, "b": 2}, l.Ctx(ctx).fields)
}
