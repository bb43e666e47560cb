package middleware

import (
	"sync/atomic"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/gin-gonic/gin"
)

// Gate holds requests back until the seed data is in place.
type Gate struct {
	ready atomic.Bool
}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) MarkReady() {
	g.ready.Store(true)
}

func (g *Gate) Ready() bool {
	return g.ready.Load()
}

// Middleware answers 503 NotReady until MarkReady is called.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Ready() {
			c.Header("Retry-After", "1")
			apperrors.Abort(c, apperrors.ErrNotReady)
			return
		}
		c.Next()
	}
}
