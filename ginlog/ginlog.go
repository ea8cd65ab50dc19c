// Package ginlog adapts sharedlog request correlation to gin.
package ginlog

import (
	"github.com/Station-Manager/sharedlog"
	"github.com/gin-gonic/gin"
)

// Correlation stores {requestId, path, method} in the request context, sets the same id
// under the gin key "requestId" and in the X-Request-Id response header, then continues
// the chain.
func Correlation(l sharedlog.LevelLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := sharedlog.RequestFields(c.Request)
		id, _ := fields[sharedlog.FieldRequestID].(string)

		c.Header(sharedlog.HeaderRequestID, id)
		c.Set(sharedlog.FieldRequestID, id)
		c.Request = c.Request.WithContext(sharedlog.ContextWithFields(c.Request.Context(), fields))

		l.Debug("request started", fields)
		c.Next()
	}
}
