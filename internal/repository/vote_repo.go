package repository

import (
	"errors"
	"time"

	"Dino_Museum/internal/model"
	"Dino_Museum/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteTally 单条评论的赞/踩计数
type VoteTally struct {
	Positive int64
	Negative int64
}

type VoteRepository interface {
	// 单条评论的计数，没有任何投票时返回0/0，不是错误
	Tally(commentID uint64) (VoteTally, error)
	// 某个用户对某条评论的投票方向，没投过返回""
	VoteOf(commentID, userID uint64) (string, error)

	// 装配评论树时用的批量版本，省得对每个节点都跑一遍SQL
	TallyByCommentIDs(commentIDs []uint64) (map[uint64]VoteTally, error)
	VotesOfUser(commentIDs []uint64, userID uint64) (map[uint64]string, error)

	// 有则覆盖polarity，无则插入；靠联合唯一索引+ON DUPLICATE KEY保证并发下绝不出现两行
	Upsert(commentID, userID uint64, polarity string) error
	// 删除投票，本来就没投过也不算错
	Retract(commentID, userID uint64) error

	WithTx(tx *gorm.DB) VoteRepository
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) WithTx(tx *gorm.DB) VoteRepository {
	return &voteRepository{db: tx}
}

func (r *voteRepository) Tally(commentID uint64) (VoteTally, error) {
	tallies, err := r.TallyByCommentIDs([]uint64{commentID})
	if err != nil {
		return VoteTally{}, err
	}
	// map里没有这个key时取到的是零值VoteTally{0,0}，正好就是“没人投票”
	return tallies[commentID], nil
}

func (r *voteRepository) VoteOf(commentID, userID uint64) (string, error) {
	var vote model.CommentVote
	err := r.db.
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil // 没投过，不是错误
		}
		return "", err
	}
	return vote.Polarity, nil
}

// tallyRow GROUP BY查询的扫描目标
type tallyRow struct {
	CommentID uint64
	Polarity  string
	Count     int64
}

// 一批评论的计数一次查完：GROUP BY (comment_id, polarity)再在内存里归拢
func (r *voteRepository) TallyByCommentIDs(commentIDs []uint64) (map[uint64]VoteTally, error) {
	result := make(map[uint64]VoteTally, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}
	var rows []tallyRow
	err := r.db.Model(&model.CommentVote{}).
		Select("comment_id, polarity, COUNT(*) as count").
		Where("comment_id IN (?)", commentIDs).
		Group("comment_id, polarity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		tally := result[row.CommentID]
		switch row.Polarity {
		case model.VotePositive:
			tally.Positive = row.Count
		case model.VoteNegative:
			tally.Negative = row.Count
		}
		result[row.CommentID] = tally
	}
	return result, nil
}

// 一个用户在一批评论上的投票，装配树的时候标出“你投过的是哪个方向”
func (r *voteRepository) VotesOfUser(commentIDs []uint64, userID uint64) (map[uint64]string, error) {
	result := make(map[uint64]string)
	if len(commentIDs) == 0 || userID == 0 {
		return result, nil // 匿名访客没有自己的投票
	}
	var votes []model.CommentVote
	err := r.db.
		Where("comment_id IN (?) AND user_id = ?", commentIDs, userID).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		result[v.CommentID] = v.Polarity
	}
	return result, nil
}

// Upsert 写投票：INSERT ... ON DUPLICATE KEY UPDATE，数据库层面原子，
// 两个并发请求同时写同一个(comment_id, user_id)时最后提交的赢，绝不会出现两行
func (r *voteRepository) Upsert(commentID, userID uint64, polarity string) error {
	vote := &model.CommentVote{
		CommentID: commentID,
		UserID:    userID,
		Polarity:  polarity,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"polarity":   polarity,
			"updated_at": time.Now(),
		}),
	}).Create(vote).Error
	if err != nil {
		logger.Log.WithError(err).Error("MySQL写入投票失败")
		return err
	}
	return nil
}

// Retract 撤销投票
func (r *voteRepository) Retract(commentID, userID uint64) error {
	// 直接发原始SQL，影响0行也是成功（幂等）
	result := r.db.Exec("DELETE FROM comment_votes WHERE comment_id = ? AND user_id = ?", commentID, userID)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL删除投票失败")
		return result.Error
	}
	return nil
}
