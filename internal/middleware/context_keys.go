package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the context.
const actorIDKey = contextKey("actorID")

// ActorHeader is the request header carrying the acting user's identifier.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware extracts the acting user from the request header and stores
// it in the context. Requests without an actor are rejected since every write
// operation records audit fields.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}

		c.Set(string(actorIDKey), actorID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), actorIDKey, actorID))
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}
