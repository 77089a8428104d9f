package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/auth"
	"github.com/khoahotran/career-studio/pkg/logger"
	"github.com/khoahotran/career-studio/pkg/metrics"
)

const (
	GinContextKeyOwnerID   = "ownerID"
	GinContextKeyRequestID = "requestID"
	HeaderRequestID        = "X-Request-Id"
)

// AuthMiddleware validates the bearer token and stores the owner id on the
// request. Handlers pass it to use cases explicitly.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperror.NewUnauthorized("authorization header is required", nil))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortWith(c, apperror.NewUnauthorized("invalid token format", nil))
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.Error(err))
			abortWith(c, apperror.NewUnauthorized("invalid or expired token", err))
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)
		c.Next()
	}
}

func abortWith(c *gin.Context, appErr *apperror.AppError) {
	c.AbortWithStatusJSON(apperror.ToHTTPStatus(appErr), appErr.ToJSON())
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperror.From(err)

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("path", c.FullPath()),
				zap.String("code", string(appErr.Code())),
				zap.String("request_id", c.GetString(GinContextKeyRequestID)))
		}
		c.JSON(status, appErr.ToJSON())
	}
}

// RequestLogger tags every request with an X-Request-Id and logs it once done.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)
		c.Set(GinContextKeyRequestID, reqID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), log.With(zap.String("request_id", reqID))))

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		}
		if ownerID, ok := GetOwnerIDFromGinContext(c); ok {
			fields = append(fields, zap.String("owner_id", ownerID.String()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		log.Info("HTTP request", fields...)
	}
}

func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
