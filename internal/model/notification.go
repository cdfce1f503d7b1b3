package model

// Notification 回复通知：有人回复了你的评论，由消费者进程异步落库
// (comment_id, recipient_id)唯一索引保证MQ消息重复投递时不会写出两条通知（幂等）
type Notification struct {
	BaseModel
	RecipientID uint64 `gorm:"not null;index;uniqueIndex:idx_comment_recipient"`
	ActorID     uint64 `gorm:"not null"`
	CommentID   uint64 `gorm:"not null;uniqueIndex:idx_comment_recipient"`
	DinosaurID  uint64 `gorm:"not null"`
	Read        bool   `gorm:"not null;default:false"`

	Actor User `gorm:"foreignKey:ActorID"`
}

func (Notification) TableName() string {
	return "notifications"
}
