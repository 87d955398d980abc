package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_issues/internal/auth"
)

const subjectKey = "subject"

// Identify resolves a bearer ID token into a subject identifier,
// best-effort: a missing or unverifiable token leaves the request
// anonymous instead of aborting it. Each route decides whether anonymous
// access is allowed.
func Identify(v auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			raw := strings.TrimPrefix(header, "Bearer ")
			sub, err := v.VerifyIDToken(c.Request.Context(), raw)
			if err != nil {
				logrus.WithError(err).Debug("Identify: token rejected, continuing anonymously")
			} else {
				c.Set(subjectKey, sub)
			}
		}
		c.Next()
	}
}

// Subject returns the verified subject of the request, if any.
func Subject(c *gin.Context) (string, bool) {
	v, ok := c.Get(subjectKey)
	if !ok {
		return "", false
	}
	sub, ok := v.(string)
	return sub, ok && sub != ""
}
