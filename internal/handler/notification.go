package handler

import (
	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler interface {
	ListNotifications(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
	CountUnread(c *gin.Context)
}

type notificationHandler struct {
	NotificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) NotificationHandler {
	return &notificationHandler{NotificationService: notificationService}
}

// 通知列表：只能看自己的，recipientID直接取context里的userID
func (h *notificationHandler) ListNotifications(c *gin.Context) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	recipientID := uint64(userIDFloat.(float64))

	notifications, err := h.NotificationService.List(recipientID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", recipientID).Error("获取通知列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取通知列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取通知列表成功",
		"data":    notifications,
	})
}

// 标记单条已读：repo层的update同时用通知ID和recipientID做条件，标不到别人的
func (h *notificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.ParseUint(c.Param("notification_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的通知ID")
		return
	}
	userIDFloat, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	recipientID := uint64(userIDFloat.(float64))

	if err := h.NotificationService.MarkRead(notificationID, recipientID); err != nil {
		logger.Log.WithError(err).WithField("notification_id", notificationID).Error("标记通知已读失败")
		sendErrorResponse(c, http.StatusInternalServerError, "标记已读失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已标记为已读"})
}

func (h *notificationHandler) MarkAllRead(c *gin.Context) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	recipientID := uint64(userIDFloat.(float64))

	if err := h.NotificationService.MarkAllRead(recipientID); err != nil {
		logger.Log.WithError(err).WithField("user_id", recipientID).Error("全部标记已读失败")
		sendErrorResponse(c, http.StatusInternalServerError, "标记已读失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "全部已读"})
}

func (h *notificationHandler) CountUnread(c *gin.Context) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	recipientID := uint64(userIDFloat.(float64))

	count, err := h.NotificationService.CountUnread(recipientID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", recipientID).Error("统计未读通知失败")
		sendErrorResponse(c, http.StatusInternalServerError, "统计未读失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unread": count}})
}
