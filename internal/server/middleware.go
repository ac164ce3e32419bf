package server

import (
	"net/http"
	"time"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

const (
	// CallerHeader carries the authenticated user id, set by the gateway in front of us
	CallerHeader    = "X-User-ID"
	RequestIDHeader = "X-Request-ID"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = utils.GenerateID()
	}
	c.Header(RequestIDHeader, requestID)

	c.Next() // process request

	fields := map[string]any{
		"request_id": requestID,
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
	}
	if callerID, ok := c.Get(helpers.CallerKey); ok {
		fields["caller_id"] = callerID
	}
	utils.Info("HTTP Request", fields)
}

// RequireCaller rejects requests without a valid caller identity
func RequireCaller(c *gin.Context) {
	callerID, err := helpers.ParseCaller(c.GetHeader(CallerHeader))
	if err != nil {
		helpers.RespondError(c, "RequireCaller", err, map[string]any{"path": c.Request.URL.Path})
		c.Abort()
		return
	}
	c.Set(helpers.CallerKey, callerID)
	c.Next()
}

// HealthHandler reports liveness
func HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, nil, "ok")
}
