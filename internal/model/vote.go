package model

import "time"

const (
	VotePositive = "positive"
	VoteNegative = "negative"
)

// CommentVote 用户对评论的投票，uniqueIndex利用的是MySQL数据库的“自动查重”能力，而不是gorm的
// 联合唯一索引保证一个用户对一条评论永远只有一行，重复投票走upsert覆盖polarity
// 和Comment一样不用BaseModel：评论被删时这行要跟着级联硬删
type CommentVote struct {
	ID        uint64 `gorm:"primarykey"`
	CommentID uint64 `gorm:"not null;uniqueIndex:idx_comment_voter"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_comment_voter"`
	Polarity  string `gorm:"type:varchar(16);not null"` // positive / negative
	CreatedAt time.Time
	UpdatedAt time.Time

	Comment Comment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}

// ValidPolarity 校验投票方向，业务入口统一用它拦非法值
func ValidPolarity(p string) bool {
	return p == VotePositive || p == VoteNegative
}
