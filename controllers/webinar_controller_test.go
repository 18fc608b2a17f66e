package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondProviderSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	respondProvider(ctx, json.RawMessage(`{"webinarKey":"123"}`), http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 0, out.Code)
	assert.JSONEq(t, `{"webinarKey":"123"}`, string(out.Data))
}

// A provider-side auth failure must not look like the caller's own session
// expired.
func TestRespondProviderRejectionBecomes502(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	respondProvider(ctx, json.RawMessage(`{"message":"invalid oauth token"}`), http.StatusUnauthorized, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var out struct {
		Code int `json:"code"`
		Data struct {
			ProviderStatus int `json:"provider_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 50271, out.Code)
	assert.Equal(t, http.StatusUnauthorized, out.Data.ProviderStatus)
}

func TestRespondProviderTransportError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	respondProvider(ctx, nil, 0, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
