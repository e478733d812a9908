package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tcclient/credentials"
	"github.com/kbukum/tcclient/hawk"
	"github.com/kbukum/tcclient/logger"
)

// CredentialsKey is the gin context key holding the verified credentials.
const CredentialsKey = "hawk.credentials"

// HawkConfig configures the Hawk verification middleware.
type HawkConfig struct {
	Verifier *hawk.Verifier
	// SkipPaths are URL paths that bypass verification, together with
	// everything below them. Matching is by whole path segment.
	SkipPaths []string
	// Optional lets unsigned requests through; signed requests are still
	// verified and rejected when invalid.
	Optional bool
	Logger   *logger.Logger
}

// Hawk returns a Gin middleware that verifies the Hawk Authorization
// header of every request and stores the caller's credentials in the
// context under CredentialsKey.
func Hawk(cfg HawkConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("hawk")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipped(path, cfg.SkipPaths) {
			c.Next()
			return
		}

		if cfg.Optional && c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		creds, _, err := cfg.Verifier.VerifyRequest(c.Request)
		if err != nil {
			log.Warn("request authentication failed", logger.Fields(
				logger.FieldMethod, c.Request.Method,
				logger.FieldURL, path,
				logger.FieldError, err.Error(),
			))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "AuthenticationFailed",
				"message": err.Error(),
			})
			return
		}

		c.Set(CredentialsKey, creds)
		c.Next()
	}
}

func skipped(path string, skips []string) bool {
	for _, skip := range skips {
		base := strings.TrimSuffix(skip, "/")
		if path == base || strings.HasPrefix(path, base+"/") {
			return true
		}
	}
	return false
}

// Credentials returns the credentials verified for this request, if any.
func Credentials(c *gin.Context) (*credentials.Credentials, bool) {
	v, ok := c.Get(CredentialsKey)
	if !ok {
		return nil, false
	}
	creds, ok := v.(*credentials.Credentials)
	return creds, ok
}
