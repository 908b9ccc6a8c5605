package http_access_middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type AccessMiddlewareSuite struct {
	suite.Suite
}

func (s *AccessMiddlewareSuite) TestReadOnly(t provider.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name   string
		mode   string
		method string
		status int
	}{
		{name: "Read-write allows POST", mode: ModeReadWrite, method: http.MethodPost, status: http.StatusOK},
		{name: "Read-only allows GET", mode: ModeReadOnly, method: http.MethodGet, status: http.StatusOK},
		{name: "Read-only rejects POST", mode: ModeReadOnly, method: http.MethodPost, status: http.StatusBadGateway},
		{name: "Read-only rejects DELETE", mode: ModeReadOnly, method: http.MethodDelete, status: http.StatusBadGateway},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			engine := gin.New()
			engine.Use(ReadOnly(tc.mode))
			engine.Handle(tc.method, "/rooms", func(ctx *gin.Context) {
				ctx.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(tc.method, "/rooms", nil))

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestAccessMiddlewareSuite(t *testing.T) {
	suite.RunSuite(t, new(AccessMiddlewareSuite))
}
