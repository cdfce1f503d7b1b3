package dto

import (
	"time"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
)

// UserInfo 是在DTO中使用的、简化的用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ReplyResponse 是回复的响应结构
type ReplyResponse struct {
	ID        uint64     `json:"id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"` // nil表示从没编辑过
	Upvotes   int64      `json:"upvotes"`
	Downvotes int64      `json:"downvotes"`
	// 当前访客自己投的方向，没投过或未登录时是空串
	ViewerVote string   `json:"viewer_vote,omitempty"`
	Author     UserInfo `json:"author"`
}

// CommentResponse 是一级评论的响应结构，它包含了回复列表
type CommentResponse struct {
	ID         uint64          `json:"id"`
	Content    string          `json:"content"`
	CreatedAt  time.Time       `json:"created_at"`
	EditedAt   *time.Time      `json:"edited_at,omitempty"`
	Upvotes    int64           `json:"upvotes"`
	Downvotes  int64           `json:"downvotes"`
	ViewerVote string          `json:"viewer_vote,omitempty"`
	Author     UserInfo        `json:"author"`
	Replies    []ReplyResponse `json:"replies"` // 回复列表
}

// ToCommentResponses 把装配树的原材料拼成最终响应：
// 一级评论按给定顺序输出，回复从挂载表里取，投票数据从两张map里查。
// map里查不到的评论就是0票/没投过——零值正好是正确答案
func ToCommentResponses(parents []model.Comment, replies map[uint64][]*model.Comment, tallies map[uint64]repository.VoteTally, viewerVotes map[uint64]string) []CommentResponse {
	// 创建一个有预估容量的切片，性能稍好
	response := make([]CommentResponse, 0, len(parents))

	for _, pc := range parents {
		tally := tallies[pc.ID]
		commentResp := CommentResponse{
			ID:         pc.ID,
			Content:    pc.Content,
			CreatedAt:  pc.CreatedAt,
			EditedAt:   pc.EditedAt,
			Upvotes:    tally.Positive,
			Downvotes:  tally.Negative,
			ViewerVote: viewerVotes[pc.ID],
			Replies:    []ReplyResponse{},
		}
		// 安全地填充作者信息，Preload失败时ID是0，宁可少个名字也别拼出错的
		if pc.User.ID != 0 {
			commentResp.Author = UserInfo{
				ID:       pc.User.ID,
				Username: pc.User.Username,
			}
		}
		// 挂载该一级评论对应的回复列表
		for _, r := range replies[pc.ID] {
			commentResp.Replies = append(commentResp.Replies, toReplyResponse(r, tallies, viewerVotes))
		}
		response = append(response, commentResp)
	}

	return response
}

func toReplyResponse(reply *model.Comment, tallies map[uint64]repository.VoteTally, viewerVotes map[uint64]string) ReplyResponse {
	tally := tallies[reply.ID]
	replyResp := ReplyResponse{
		ID:         reply.ID,
		Content:    reply.Content,
		CreatedAt:  reply.CreatedAt,
		EditedAt:   reply.EditedAt,
		Upvotes:    tally.Positive,
		Downvotes:  tally.Negative,
		ViewerVote: viewerVotes[reply.ID],
	}
	// 安全地填充回复的作者
	if reply.User.ID != 0 {
		replyResp.Author = UserInfo{
			ID:       reply.User.ID,
			Username: reply.User.Username,
		}
	}
	return replyResp
}

// ToCommentResponse 单条评论的转换，发评论成功后的即时回显用
func ToCommentResponse(comment *model.Comment) *CommentResponse {
	commentResponse := &CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		EditedAt:  comment.EditedAt,
		Replies:   []ReplyResponse{},
	}
	if comment.User.ID != 0 {
		commentResponse.Author = UserInfo{
			ID:       comment.User.ID,
			Username: comment.User.Username,
		}
	}
	return commentResponse
}
