package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ClientIDHeader = "X-Client-ID"

// ClientID identifies the browser owning a shortlist. A missing or malformed
// id is replaced by a fresh one, echoed back in the response header so the
// page can keep it. This is identification only; nothing is authenticated.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(ClientIDHeader))
		if err != nil {
			id = uuid.New()
		}
		c.Set("client_id", id)
		c.Header(ClientIDHeader, id.String())
		c.Next()
	}
}

// GetClientID returns the id stored by ClientID.
func GetClientID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("client_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
