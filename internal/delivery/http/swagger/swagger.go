package http_swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controller struct {
	handler gin.HandlerFunc
}

// New serves the swagger UI with operations and models collapsed.
func New() *Controller {
	return &Controller{
		handler: ginSwagger.WrapHandler(swaggerFiles.Handler,
			ginSwagger.DocExpansion("none"),
			ginSwagger.DefaultModelsExpandDepth(-1),
		),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/swagger/*any", c.handler)
}
