package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	assert.Equal(t, ErrorBody{Code: 404, Detail: "Not Found"}, Error(http.StatusNotFound, ""))
	assert.Equal(t, ErrorBody{Code: 400, Detail: "bad email"}, Error(http.StatusBadRequest, "bad email"))
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Abort(c, http.StatusTooManyRequests, "")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"code":429,"detail":"Too many requests"}`, w.Body.String())
}
