package repository

import (
	"time"

	"Dino_Museum/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)

	// 获取恐龙详情页的一级评论，最新的在最上面
	ListTopLevel(dinosaurID uint64) ([]model.Comment, error)
	// 根据父评论ID列表，批量获取回复，按时间正序（还原对话顺序）
	ListRepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error)

	// 更新内容并盖上编辑时间戳；id不存在时返回gorm.ErrRecordNotFound
	UpdateContent(commentID uint64, content string) error
	// 硬删除；子回复和投票由数据库外键CASCADE清理，应用层不用管
	Delete(commentID uint64) error
	// 删除一个恐龙下的全部讨论。恐龙本身是软删除，外键不会触发，所以下架图鉴时要靠它
	DeleteByDinosaur(dinosaurID uint64) error
	// 评论总数（含回复），详情页角标用
	CountByDinosaur(dinosaurID uint64) (int64, error)

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 commentRepository 实例
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{
		db: tx,
	}
}

// Create 对事务和非事务场景通用，CreatedAt由gorm自动盖章
func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// 利用commentID找comment，并顺便将作者User给Preload进去
func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var result model.Comment
	// 把筛选条件放在db.First参数中，并把Comment结构体中的User结构体也Preload出来
	err := r.db.Preload("User").First(&result, commentID).Error
	if err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, err
}

// 获取一个恐龙下的一级评论，最新的讨论浮在最上面
func (r *commentRepository) ListTopLevel(dinosaurID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Preload("User"). // 预加载评论的作者信息，能一次性地把作者查询出来
		Where("dinosaur_id = ? AND parent_id IS NULL", dinosaurID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

// 根据一批父评论ID，获取它们所有的回复
func (r *commentRepository) ListRepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error) {
	var replies []model.Comment
	err := r.db.
		Preload("User"). // 预加载回复的作者
		Where("parent_id IN (?)", parentIDs).
		Order("created_at asc"). // 回复按时间正序排列
		Find(&replies).Error
	return replies, err
}

// UpdateContent 只改content，顺手把edited_at盖成现在
func (r *commentRepository) UpdateContent(commentID uint64, content string) error {
	now := time.Now()
	result := r.db.Model(&model.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{
			"content":   content,
			"edited_at": &now,
		})
	if result.Error != nil {
		return result.Error
	}
	// Updates不会因为行不存在而报错，得自己看影响行数
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 硬删除这一行，子回复链和comment_votes行由外键ON DELETE CASCADE连带清掉
func (r *commentRepository) Delete(commentID uint64) error {
	return r.db.Exec("DELETE FROM comments WHERE id = ?", commentID).Error
}

func (r *commentRepository) DeleteByDinosaur(dinosaurID uint64) error {
	return r.db.Exec("DELETE FROM comments WHERE dinosaur_id = ?", dinosaurID).Error
}

func (r *commentRepository) CountByDinosaur(dinosaurID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("dinosaur_id = ?", dinosaurID).
		Count(&count).Error
	return count, err
}
