package http_init

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type ControllerPoolSuite struct {
	suite.Suite
}

type pingController struct{}

func (pingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString("tag"))
	})
}

func (s *ControllerPoolSuite) TestServesPrefixAndRoot(t provider.T) {
	gin.SetMode(gin.TestMode)
	pool := NewControllerPool(func(ctx *gin.Context) {
		ctx.Set("tag", "tagged")
		ctx.Next()
	})
	pool.Add(pingController{})
	pool.Register()

	for _, path := range []string{"/api/v1/ping", "/ping"} {
		rec := httptest.NewRecorder()
		pool.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "tagged", rec.Body.String(), path)
	}
}

func TestControllerPoolSuite(t *testing.T) {
	suite.RunSuite(t, new(ControllerPoolSuite))
}
