package dto

import (
	"testing"
	"time"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
)

func makeComment(id, userID uint64, content string, parentID *uint64) model.Comment {
	return model.Comment{
		ID:         id,
		DinosaurID: 1,
		UserID:     userID,
		Content:    content,
		ParentID:   parentID,
		CreatedAt:  time.Now(),
		User:       model.User{BaseModel: model.BaseModel{ID: userID}, Username: "user"},
	}
}

// 树的装配形状：回复挂对父节点，计数和访客投票标在正确的节点上
func TestToCommentResponses(t *testing.T) {
	parentID := uint64(1)
	parents := []model.Comment{
		makeComment(1, 10, "一级评论", nil),
		makeComment(2, 11, "没有回复的评论", nil),
	}
	reply := makeComment(3, 12, "回复", &parentID)
	replies := map[uint64][]*model.Comment{
		1: {&reply},
	}
	tallies := map[uint64]repository.VoteTally{
		1: {Positive: 3, Negative: 1},
		3: {Positive: 1},
	}
	viewerVotes := map[uint64]string{
		1: model.VotePositive,
	}

	response := ToCommentResponses(parents, replies, tallies, viewerVotes)

	if len(response) != 2 {
		t.Fatalf("期望2条一级评论，实际%d", len(response))
	}
	first := response[0]
	if first.Upvotes != 3 || first.Downvotes != 1 {
		t.Errorf("计数期望3/1，实际%d/%d", first.Upvotes, first.Downvotes)
	}
	if first.ViewerVote != model.VotePositive {
		t.Errorf("期望viewer_vote是positive，实际%q", first.ViewerVote)
	}
	if len(first.Replies) != 1 {
		t.Fatalf("期望1条回复，实际%d", len(first.Replies))
	}
	if first.Replies[0].ID != 3 || first.Replies[0].Upvotes != 1 {
		t.Error("回复没有挂对节点或者票数错了")
	}
	if first.Replies[0].ViewerVote != "" {
		t.Errorf("没投过的回复viewer_vote应该是空串，实际%q", first.Replies[0].ViewerVote)
	}

	// 第二条评论map里什么都查不到，零值就是正确答案
	second := response[1]
	if second.Upvotes != 0 || second.Downvotes != 0 || second.ViewerVote != "" {
		t.Error("没人投票的评论应该是0/0且没有viewer_vote")
	}
	if second.Replies == nil || len(second.Replies) != 0 {
		t.Error("没有回复时Replies应该是空切片而不是nil")
	}
}

// 即时回显：刚创建的评论没有票也没有回复
func TestToCommentResponse(t *testing.T) {
	comment := makeComment(5, 10, "刚发的评论", nil)

	resp := ToCommentResponse(&comment)
	if resp.ID != 5 || resp.Content != "刚发的评论" {
		t.Error("基础字段转换错误")
	}
	if resp.Author.ID != 10 {
		t.Errorf("作者ID期望10，实际%d", resp.Author.ID)
	}
	if resp.EditedAt != nil {
		t.Error("新评论的EditedAt应该是nil")
	}
	if resp.Upvotes != 0 || resp.Downvotes != 0 {
		t.Error("新评论应该是0/0")
	}
}
