package model

import "time"

// Comment 不用BaseModel：软删除的DeletedAt会让MySQL的ON DELETE CASCADE形同虚设，
// 评论删除必须是硬删除，数据库才能顺着外键把子回复和投票一起清干净
type Comment struct {
	ID         uint64 `gorm:"primarykey"`
	DinosaurID uint64 `gorm:"not null;index"` // index索引，极大地加速基于该列的查询、过滤和排序操作
	UserID     uint64 `gorm:"not null;index"`
	// TEXT是MySQL中的一种文本类型，专门用于存储非常长的字符串，最大长度可达65,535个字符
	Content string `gorm:"type:text;not null"`
	// 指针*uint64的零值是nil，这样就可以区分是一级评论还是回复
	ParentID  *uint64 `gorm:"index"`
	CreatedAt time.Time
	// 首次编辑之前一直是nil，页面靠它显示"已编辑"标记
	EditedAt *time.Time

	User     User      `gorm:"foreignKey:UserID"`
	Dinosaur Dinosaur  `gorm:"foreignKey:DinosaurID;constraint:OnDelete:CASCADE"`
	// 自引用外键，删父评论时数据库级联删掉整条回复链（链比一层深也没关系，CASCADE是传递的）
	Parent *Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// 想精确控制表名，或表名不符合GORM的复数规则，就必须实现TableName()方法规定表名
func (Comment) TableName() string {
	return "comments"
}
