package model

import (
	"time"

	"gorm.io/gorm"
)

// 由于gorm的基本结构中ID是uint类型，全项目统一成uint64，所以自己搞了个base结构体
// 注意：只有图鉴类实体（恐龙、纪元、地区、栖息地、用户）用它。
// 评论和投票不用，因为DeletedAt软删除会挡住数据库的级联删除（见comment.go）
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
