package identity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the externally-authenticated numeric actor id.
// Authentication itself happens upstream (gateway); this service only
// trusts and parses the header.
const ActorHeader = "X-Sharer-User-Id"

// ActorRequired is a Gin middleware that extracts the actor id from the
// X-Sharer-User-Id header and stores it into the request context.
func ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(ActorHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing " + ActorHeader + " header",
			})
			return
		}

		actorID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || actorID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + ActorHeader + " header",
			})
			return
		}

		c.Set(actorIDKey, actorID)

		c.Next()
	}
}
