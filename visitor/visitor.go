// Package visitor identifies each browser by a session cookie and hands
// handlers that visitor's store.
package visitor

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"barklounge/store"
)

const (
	sessionKey = "visitor_id"
	idKey      = "visitor.id"
	storeKey   = "visitor.store"
)

// Middleware loads or mints the visitor ID and attaches its store.
// Must run after sessions.Sessions.
func Middleware(reg *store.Registry, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		session := sessions.Default(c)

		id, _ := session.Get(sessionKey).(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			session.Set(sessionKey, id)
			if err := session.Save(); err != nil {
				log.Warn("saving visitor session failed", zap.Error(err))
			}
		}

		c.Set(idKey, id)
		c.Set(storeKey, reg.Get(id))
		c.Next()
	}
}

func ID(c *gin.Context) string {
	return c.GetString(idKey)
}

// Store returns the visitor's store. It panics if Middleware did not run.
func Store(c *gin.Context) *store.Store {
	return c.MustGet(storeKey).(*store.Store)
}

// Lookup is Store for code that may run before Middleware.
func Lookup(c *gin.Context) (*store.Store, bool) {
	v, ok := c.Get(storeKey)
	if !ok {
		return nil, false
	}
	st, ok := v.(*store.Store)
	return st, ok
}
