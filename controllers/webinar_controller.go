package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medixhq/medix/utils"
)

// WebinarController proxies admin requests to the external conferencing
// provider. It is a thin passthrough: provider JSON is returned as-is and the
// provider's HTTP status maps onto the response envelope.
type WebinarController struct{}

// NewWebinarController creates a WebinarController.
func NewWebinarController() *WebinarController {
	return &WebinarController{}
}

func webinarClient(ctx *gin.Context) *utils.WebinarClient {
	client := utils.GetWebinarClient()
	if client == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50370, "webinar provider not configured")
		return nil
	}
	return client
}

// respondProvider maps provider outcomes onto this API's envelope. Provider
// rejections surface as 502 carrying the provider status, so a provider-side
// 401 is never mistaken for an expired admin session here.
func respondProvider(ctx *gin.Context, raw json.RawMessage, status int, err error) {
	if err != nil {
		utils.Sugar.Errorf("webinar provider call failed: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50270, "webinar provider error")
		return
	}
	if status >= 400 {
		utils.Respond(ctx, http.StatusBadGateway, 50271, "webinar provider rejected request", gin.H{
			"provider_status":   status,
			"provider_response": raw,
		})
		return
	}
	utils.Success(ctx, raw)
}

// Create schedules a webinar with the provider using the request body as-is.
func (w *WebinarController) Create(ctx *gin.Context) {
	client := webinarClient(ctx)
	if client == nil {
		return
	}

	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<20))
	if err != nil || len(body) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40070, "request body required")
		return
	}

	raw, status, err := client.CreateWebinar(ctx.Request.Context(), body)
	respondProvider(ctx, raw, status, err)
}

// List fetches webinars from the provider with optional paging.
func (w *WebinarController) List(ctx *gin.Context) {
	client := webinarClient(ctx)
	if client == nil {
		return
	}

	listType := strings.TrimSpace(ctx.DefaultQuery("type", "upcoming"))
	index, _ := strconv.Atoi(ctx.DefaultQuery("index", "1"))
	count, _ := strconv.Atoi(ctx.DefaultQuery("count", "10"))
	if index < 1 {
		index = 1
	}
	if count < 1 || count > 100 {
		count = 10
	}

	raw, status, err := client.ListWebinars(ctx.Request.Context(), listType, index, count)
	respondProvider(ctx, raw, status, err)
}

// Get fetches one webinar by provider id.
func (w *WebinarController) Get(ctx *gin.Context) {
	client := webinarClient(ctx)
	if client == nil {
		return
	}

	id := strings.TrimSpace(ctx.Param("webinarId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "webinar id required")
		return
	}

	raw, status, err := client.GetWebinar(ctx.Request.Context(), id)
	respondProvider(ctx, raw, status, err)
}

// Update patches a webinar at the provider.
func (w *WebinarController) Update(ctx *gin.Context) {
	client := webinarClient(ctx)
	if client == nil {
		return
	}

	id := strings.TrimSpace(ctx.Param("webinarId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "webinar id required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, 1<<20))
	if err != nil || len(body) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40070, "request body required")
		return
	}

	raw, status, err := client.UpdateWebinar(ctx.Request.Context(), id, body)
	respondProvider(ctx, raw, status, err)
}

// Delete cancels a webinar at the provider.
func (w *WebinarController) Delete(ctx *gin.Context) {
	client := webinarClient(ctx)
	if client == nil {
		return
	}

	id := strings.TrimSpace(ctx.Param("webinarId"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "webinar id required")
		return
	}

	raw, status, err := client.DeleteWebinar(ctx.Request.Context(), id)
	respondProvider(ctx, raw, status, err)
}
