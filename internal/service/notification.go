package service

import (
	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
)

// NotificationService 通知的读端。写端在cmd/consumer里，靠MQ消息落库
type NotificationService interface {
	List(recipientID uint64) ([]model.Notification, error)
	MarkRead(notificationID, recipientID uint64) error
	MarkAllRead(recipientID uint64) error
	CountUnread(recipientID uint64) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(recipientID uint64) ([]model.Notification, error) {
	return s.notificationRepo.FindByRecipient(recipientID)
}

func (s *notificationService) MarkRead(notificationID, recipientID uint64) error {
	return s.notificationRepo.MarkRead(notificationID, recipientID)
}

func (s *notificationService) MarkAllRead(recipientID uint64) error {
	return s.notificationRepo.MarkAllRead(recipientID)
}

func (s *notificationService) CountUnread(recipientID uint64) (int64, error) {
	return s.notificationRepo.CountUnread(recipientID)
}
