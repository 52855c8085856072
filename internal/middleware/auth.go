package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/ehomehq/ehome/internal/auth"
	"github.com/ehomehq/ehome/pkg/errors"
	"github.com/ehomehq/ehome/pkg/logger"
	"github.com/ehomehq/ehome/pkg/response"
)

const (
	CtxSessionKey = "session"
	CtxUserIDKey  = "userID"
)

// Auth rejects requests without a valid bearer session with SESSIONERR.
func Auth(sessions *iauth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := bearerSession(c, sessions)
		if err != nil {
			if stderrors.Is(err, iauth.ErrExpiredToken) {
				logger.WithModule("auth").Debug("expired session token", zap.String("path", c.Request.URL.Path))
			}
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrSession)
			c.Abort()
			return
		}

		setIdentity(c, session)
		c.Next()
	}
}

// OptionalAuth records the caller when a valid bearer session is present and
// lets every other request through as anonymous.
func OptionalAuth(sessions *iauth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, err := bearerSession(c, sessions); err == nil {
			setIdentity(c, session)
		}
		c.Next()
	}
}

// UserID returns the user id stored by Auth or OptionalAuth.
func UserID(c *gin.Context) (uint, bool) {
	id := c.GetUint(CtxUserIDKey)
	return id, id != 0
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func bearerSession(c *gin.Context, sessions *iauth.Sessions) (*iauth.Session, error) {
	if sessions == nil {
		return nil, iauth.ErrNoToken
	}
	return sessions.Verify(bearerToken(c.GetHeader("Authorization")))
}

func setIdentity(c *gin.Context, session *iauth.Session) {
	c.Set(CtxSessionKey, session)
	c.Set(CtxUserIDKey, session.UserID)
}
