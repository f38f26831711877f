package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mercado/internal/pkg/response"
	"mercado/internal/repository"
)

// RequireAuth resolves the bearer token into a user id before any other
// repository call happens. Unresolvable tokens stop the request with 401.
func RequireAuth(repo repository.ListingRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if accessToken == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		userID, err := repo.ResolveAuthUserID(c.Request.Context(), accessToken)
		if err != nil {
			log.Printf("auth: token resolution failed error=%q", err.Error())
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "An internal error occurred")
			c.Abort()
			return
		}
		if userID == "" {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, message)
	c.Abort()
}
