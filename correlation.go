package sharedlog

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestID returns the id chi's RequestID middleware assigned to r, else the
// X-Request-Id header, else a new random UUID.
func RequestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != emptyString {
		return id
	}
	if id := r.Header.Get(HeaderRequestID); id != emptyString {
		return id
	}
	return uuid.NewString()
}

// RequestFields returns the correlation fields for r.
func RequestFields(r *http.Request) Fields {
	return Fields{
		FieldRequestID: RequestID(r),
		FieldPath:      r.URL.Path,
		FieldMethod:    r.Method,
	}
}

// CorrelationMiddleware stores {requestId, path, method} in each request's context and
// echoes the id in the X-Request-Id response header. Handlers pick the fields up with
// l.Ctx(r.Context()). next is always called exactly once.
func (l *Logger) CorrelationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := RequestFields(r)
			id, _ := fields[FieldRequestID].(string)
			w.Header().Set(HeaderRequestID, id)

			ctx := ContextWithFields(r.Context(), fields)
			l.Ctx(ctx).Debug("request started")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
