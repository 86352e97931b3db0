package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"id": 1}, "done", http.StatusCreated)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"id":1},"message":"done","code":201,"success":true}`, w.Body.String())
}

func TestError_EmptyPayload(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, Empty(), "nope", http.StatusForbidden)

	require.Equal(t, http.StatusForbidden, w.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, []any{}, env["data"])
	assert.Equal(t, false, env["success"])
	assert.EqualValues(t, http.StatusForbidden, env["code"])
}

func TestSuccess_NullMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, nil, "", http.StatusOK)

	assert.JSONEq(t, `{"data":null,"message":null,"code":200,"success":true}`, w.Body.String())
}
