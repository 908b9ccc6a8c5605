package http_init

import (
	"log"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	groups []*gin.RouterGroup
	engine *gin.Engine
}

// NewControllerPool serves every controller under /api/v1 and, for older
// clients, under the root as well. Middlewares apply to both.
func NewControllerPool(middlewares ...gin.HandlerFunc) *ControllerPool {
	engine := gin.Default() // ! Change on NGINX setup
	engine.Use(middlewares...)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		groups: []*gin.RouterGroup{engine.Group(apiPrefix), engine.Group("")},
		engine: engine,
	}
}

func (pool *ControllerPool) Register() {
	for _, rg := range pool.groups {
		for _, c := range pool.pool {
			c.RegisterRoutes(rg)
		}
	}
}

func (pool *ControllerPool) Engine() *gin.Engine {
	return pool.engine
}

func (pool *ControllerPool) RunAll(port string) {
	if err := pool.engine.Run(":" + port); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}
