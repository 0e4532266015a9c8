package identity

import "github.com/gin-gonic/gin"

const actorIDKey = "actorID"

// GetActorID returns the actor id stored by ActorRequired, or 0.
func GetActorID(c *gin.Context) int64 {
	if v, ok := c.Get(actorIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
