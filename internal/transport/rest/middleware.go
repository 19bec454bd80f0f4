package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/auth"
	"github.com/golfworks/fittings/internal/model"
	"github.com/golfworks/fittings/internal/observability"
)

const (
	principalKey  = "principal"
	requestIDKey  = "request_id"
	requestHeader = "X-Request-ID"
)

// Principal is the caller identity taken from a verified token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// CanAccess reports whether the caller may act on a record owned by owner.
func (p Principal) CanAccess(owner uuid.UUID) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleConsumer:
		return p.UserID == owner
	default:
		return false
	}
}

func principal(c *gin.Context) Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(Principal)
	return p
}

// JWTAuth requires "Authorization: Bearer <token>" and stores the Principal.
func JWTAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(tok) == "" {
			writeError(c, apperror.Unauthorized("No token provided"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(tok))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			writeError(c, apperror.Unauthorized(msg))
			return
		}
		id, err := uuid.Parse(claims.Sub)
		if err != nil {
			writeError(c, apperror.Unauthorized("Invalid token"))
			return
		}

		c.Set(principalKey, Principal{UserID: id, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch principal(c).Role {
		case model.RoleAdmin:
			c.Next()
		case model.RoleConsumer:
			writeError(c, apperror.Forbidden("Admin access required"))
		default:
			writeError(c, apperror.Forbidden("Admin access required"))
		}
	}
}

// RequestLogger tags the request with an id and a span, then logs the
// outcome and records the HTTP metrics.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Header(requestHeader, reqID)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := observability.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String("request.id", reqID),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.End()

		observability.ObserveHTTPRequest(c.Request.Method, route, status, elapsed)

		ev := observability.LoggerFromContext(ctx).Info()
		if status >= 500 {
			ev = observability.LoggerFromContext(ctx).Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", reqID).
			Msg("http request")
	}
}
