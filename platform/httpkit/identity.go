// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated Telegram operator's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access operator information without depending on Gin.
type Identity interface {
	// OperatorID returns the operator's Telegram user ID.
	OperatorID() int64
	// Username returns the operator's Telegram username, if any.
	Username() string
	// IsAuthenticated returns true if the operator is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	operatorID    int64
	username      string
	authenticated bool
}

func (i *identity) OperatorID() int64 {
	return i.operatorID
}

func (i *identity) Username() string {
	return i.username
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// SetIdentity stores the operator identity on the Gin context. Called by the
// Telegram initData auth middleware after successful verification.
func SetIdentity(c *gin.Context, operatorID int64, username string) {
	c.Set(ContextOperatorIDKey, operatorID)
	c.Set(ContextOperatorUsernameKey, username)
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if operator info is not present.
func GetIdentity(c *gin.Context) Identity {
	operatorID, ok := c.Get(ContextOperatorIDKey)
	if !ok {
		return &identity{authenticated: false}
	}

	id, ok := operatorID.(int64)
	if !ok {
		return &identity{authenticated: false}
	}

	username := c.GetString(ContextOperatorUsernameKey)

	return &identity{
		operatorID:    id,
		username:      username,
		authenticated: true,
	}
}
