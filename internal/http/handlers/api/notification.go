package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/http/response"
)

// ListNotifications 收件箱列表
func (h *Handler) ListNotifications(c *gin.Context) {
	recipient, ok := shared.Recipient(c)
	if !ok {
		return
	}
	page, pageSize := shared.PageQuery(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))

	notifications, total, err := h.NotificationService.List(recipient, page, pageSize, unreadOnly)
	if err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "notification list failed")
		return
	}
	response.SuccessWithPage(c, notifications, response.NewPagination(page, pageSize, total))
}

// MarkNotificationRead 标记通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	recipient, ok := shared.Recipient(c)
	if !ok {
		return
	}
	id, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(id, recipient); err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "notification update failed")
		return
	}
	response.Success(c, gin.H{"read": true})
}

// UnreadNotificationCount 未读通知数
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	recipient, ok := shared.Recipient(c)
	if !ok {
		return
	}

	count, err := h.NotificationService.UnreadCount(recipient)
	if err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "notification count failed")
		return
	}
	response.Success(c, gin.H{"unread": count})
}
