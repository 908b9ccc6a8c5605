package http_swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type SwaggerControllerSuite struct {
	suite.Suite
}

func (s *SwaggerControllerSuite) TestServesUI(t provider.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New().RegisterRoutes(engine.Group("/api/v1"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestSwaggerControllerSuite(t *testing.T) {
	suite.RunSuite(t, new(SwaggerControllerSuite))
}
