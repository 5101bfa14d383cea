// Package handler exposes the chats API over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trbe_ops_backend/internal/chats/service"
	"trbe_ops_backend/internal/chats/transport"
	"trbe_ops_backend/platform/httpkit"
	"trbe_ops_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the chats routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id/stage", h.GetStage)
	rg.POST("/:id/stage", h.SetStage)
	rg.POST("/:id/stage/auto", h.EvaluateStage)
	rg.POST("/:id/summary", h.Summarize)
}

func (h *Handler) List(c *gin.Context) {
	chats, err := h.svc.ListChats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToChatResponses(chats))
}

func (h *Handler) GetStage(c *gin.Context) {
	chatID, ok := h.chatID(c)
	if !ok {
		return
	}

	eval, err := h.svc.GetStage(c.Request.Context(), chatID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToStageResponse(eval))
}

func (h *Handler) SetStage(c *gin.Context) {
	chatID, ok := h.chatID(c)
	if !ok {
		return
	}

	var req transport.SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	eval, err := h.svc.SetStageManual(c.Request.Context(), chatID, req.Stage)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToStageResponse(eval))
}

func (h *Handler) EvaluateStage(c *gin.Context) {
	chatID, ok := h.chatID(c)
	if !ok {
		return
	}

	eval, err := h.svc.EvaluateStage(c.Request.Context(), chatID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToStageResponse(eval))
}

func (h *Handler) Summarize(c *gin.Context) {
	chatID, ok := h.chatID(c)
	if !ok {
		return
	}

	summary, err := h.svc.Summarize(c.Request.Context(), chatID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SummaryResponse{ChatID: chatID, Summary: summary})
}

func (h *Handler) chatID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return 0, false
	}
	return id, true
}
