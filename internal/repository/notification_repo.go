package repository

import (
	"Dino_Museum/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	// 某个用户的通知列表，新的在前
	FindByRecipient(recipientID uint64) ([]model.Notification, error)
	// 标记已读；recipientID一起带上，防止用户读掉别人的通知
	MarkRead(notificationID, recipientID uint64) error
	MarkAllRead(recipientID uint64) error
	CountUnread(recipientID uint64) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) FindByRecipient(recipientID uint64) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.
		Preload("Actor").
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(notificationID, recipientID uint64) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		UpdateColumn("read", true).Error
}

func (r *notificationRepository) MarkAllRead(recipientID uint64) error {
	return r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		UpdateColumn("read", true).Error
}

func (r *notificationRepository) CountUnread(recipientID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
