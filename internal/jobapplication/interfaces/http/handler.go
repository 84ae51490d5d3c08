// Package http 求职申请上下文的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/recruiting/internal/jobapplication/application"
	"github.com/wyfcoding/recruiting/internal/jobapplication/domain"
	notificationapp "github.com/wyfcoding/recruiting/internal/notification/application"
	"github.com/wyfcoding/recruiting/pkg/logger"
)

// Handler 求职申请 HTTP 处理器
type Handler struct {
	service    *application.ApplicationService
	dispatcher *notificationapp.Dispatcher
}

// NewHandler 创建 HTTP 处理器，dispatcher 可为 nil（通知记录查询不可用）
func NewHandler(service *application.ApplicationService, dispatcher *notificationapp.Dispatcher) *Handler {
	return &Handler{service: service, dispatcher: dispatcher}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/applications")
	{
		applications.POST("", h.SubmitApplication)
		applications.GET("", h.ListApplications)
		applications.GET("/:id", h.GetApplication)
		applications.POST("/:id/status", h.TransitionStatus)
		applications.GET("/:id/notifications", h.ListNotifications)
	}
}

type submitApplicationRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Locale   string `json:"locale"`
}

type transitionStatusRequest struct {
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	ChangedBy string `json:"changed_by"`
}

// SubmitApplication 提交新申请
// POST /api/v1/applications
func (h *Handler) SubmitApplication(c *gin.Context) {
	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	dto, err := h.service.SubmitApplication(c.Request.Context(), application.SubmitApplicationCommand{
		FullName: req.FullName,
		Email:    req.Email,
		Locale:   req.Locale,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Application submitted",
		"data":    dto,
	})
}

// TransitionStatus 变更申请状态
// POST /api/v1/applications/:id/status
func (h *Handler) TransitionStatus(c *gin.Context) {
	var req transitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	dto, err := h.service.TransitionStatus(c.Request.Context(), application.TransitionStatusCommand{
		ApplicationID: c.Param("id"),
		Status:        req.Status,
		Notes:         req.Notes,
		ChangedBy:     req.ChangedBy,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated",
		"data":    dto,
	})
}

// GetApplication 查询申请详情
// GET /api/v1/applications/:id
func (h *Handler) GetApplication(c *gin.Context) {
	dto, err := h.service.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if dto == nil {
		notFound(c, "Application not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    dto,
	})
}

// ListApplications 分页查询申请列表
// GET /api/v1/applications?status=SUBMITTED&limit=20&offset=0
func (h *Handler) ListApplications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	dtos, total, err := h.service.ListApplications(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data": gin.H{
			"items": dtos,
			"total": total,
		},
	})
}

// ListNotifications 查询申请的通知投递记录
// GET /api/v1/applications/:id/notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	if h.dispatcher == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "OK",
			"data":    []any{},
		})
		return
	}

	notifications, err := h.dispatcher.ListByApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    notifications,
	})
}

// writeError 按错误类型映射 HTTP 响应
func (h *Handler) writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  vErr.Fields,
		})
	case errors.Is(err, domain.ErrApplicationNotFound):
		notFound(c, "Application not found")
	default:
		logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": message,
	})
}
