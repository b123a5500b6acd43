package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ForbiddenBody is the single response for every authorization failure.
const ForbiddenBody = "Forbidden"

// Authorizer checks the static admin pair.
type Authorizer interface {
	Authorized(user, pass string) bool
}

// IsAuthorized reads the user and pass form fields. Missing fields never authorize.
func IsAuthorized(c *gin.Context, auth Authorizer) bool {
	user, hasUser := c.GetPostForm("user")
	pass, hasPass := c.GetPostForm("pass")
	if !hasUser || !hasPass {
		return false
	}
	return auth.Authorized(user, pass)
}

// RequireAdmin stops unauthorized requests with a fixed 403 that does not say which field was wrong.
func RequireAdmin(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthorized(c, auth) {
			c.Data(http.StatusForbidden, "text/plain; charset=utf-8", []byte(ForbiddenBody))
			c.Abort()
			return
		}
		c.Next()
	}
}
