package service

import (
	"sort"
	"testing"
	"time"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
	"Dino_Museum/pkg/logger"

	"gorm.io/gorm"
)

func init() {
	// repo层的日志会经过全局Log，测试里也得先初始化
	logger.InitLogger()
}

// ---- 内存版的假repo，不用连MySQL也能把业务规则全部跑一遍 ----

type voteKey struct {
	commentID uint64
	userID    uint64
}

type fakeVoteRepo struct {
	votes map[voteKey]string
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[voteKey]string)}
}

func (f *fakeVoteRepo) Tally(commentID uint64) (repository.VoteTally, error) {
	tallies, _ := f.TallyByCommentIDs([]uint64{commentID})
	return tallies[commentID], nil
}

func (f *fakeVoteRepo) VoteOf(commentID, userID uint64) (string, error) {
	return f.votes[voteKey{commentID, userID}], nil
}

func (f *fakeVoteRepo) TallyByCommentIDs(commentIDs []uint64) (map[uint64]repository.VoteTally, error) {
	result := make(map[uint64]repository.VoteTally)
	for _, id := range commentIDs {
		for key, polarity := range f.votes {
			if key.commentID != id {
				continue
			}
			tally := result[id]
			if polarity == model.VotePositive {
				tally.Positive++
			} else {
				tally.Negative++
			}
			result[id] = tally
		}
	}
	return result, nil
}

func (f *fakeVoteRepo) VotesOfUser(commentIDs []uint64, userID uint64) (map[uint64]string, error) {
	result := make(map[uint64]string)
	if userID == 0 {
		return result, nil
	}
	for _, id := range commentIDs {
		if polarity, ok := f.votes[voteKey{id, userID}]; ok {
			result[id] = polarity
		}
	}
	return result, nil
}

// Upsert 和真实实现一样：同一个(comment, user)只会有一条，后写的方向赢
func (f *fakeVoteRepo) Upsert(commentID, userID uint64, polarity string) error {
	f.votes[voteKey{commentID, userID}] = polarity
	return nil
}

func (f *fakeVoteRepo) Retract(commentID, userID uint64) error {
	delete(f.votes, voteKey{commentID, userID})
	return nil
}

func (f *fakeVoteRepo) WithTx(tx *gorm.DB) repository.VoteRepository { return f }

type fakeCommentRepo struct {
	comments map[uint64]*model.Comment
	nextID   uint64
	base     time.Time

	// Delete要模拟外键的ON DELETE CASCADE，所以要能摸到投票表
	votes *fakeVoteRepo
}

func newFakeCommentRepo(votes *fakeVoteRepo) *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[uint64]*model.Comment),
		base:     time.Now(),
		votes:    votes,
	}
}

func (f *fakeCommentRepo) Create(comment *model.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	// 自增的时间戳，让排序是确定的
	comment.CreatedAt = f.base.Add(time.Duration(f.nextID) * time.Millisecond)
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeCommentRepo) FindByID(commentID uint64) (*model.Comment, error) {
	comment, ok := f.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	result := *comment
	return &result, nil
}

func (f *fakeCommentRepo) ListTopLevel(dinosaurID uint64) ([]model.Comment, error) {
	var result []model.Comment
	for _, c := range f.comments {
		if c.DinosaurID == dinosaurID && c.ParentID == nil {
			result = append(result, *c)
		}
	}
	// 最新的在最上面
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeCommentRepo) ListRepliesByParentIDs(parentIDs []uint64) ([]model.Comment, error) {
	wanted := make(map[uint64]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	var result []model.Comment
	for _, c := range f.comments {
		if c.ParentID != nil && wanted[*c.ParentID] {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeCommentRepo) UpdateContent(commentID uint64, content string) error {
	comment, ok := f.comments[commentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// 编辑时间走和Create同一个合成时钟，往前拨一格，
	// 保证EditedAt永远不早于任何已有的CreatedAt
	f.nextID++
	editedAt := f.base.Add(time.Duration(f.nextID) * time.Millisecond)
	comment.Content = content
	comment.EditedAt = &editedAt
	return nil
}

// Delete 模拟数据库外键：子回复链和这些评论上的投票一起消失
func (f *fakeCommentRepo) Delete(commentID uint64) error {
	doomed := []uint64{commentID}
	for len(doomed) > 0 {
		id := doomed[0]
		doomed = doomed[1:]
		delete(f.comments, id)
		for key := range f.votes.votes {
			if key.commentID == id {
				delete(f.votes.votes, key)
			}
		}
		for _, c := range f.comments {
			if c.ParentID != nil && *c.ParentID == id {
				doomed = append(doomed, c.ID)
			}
		}
	}
	return nil
}

func (f *fakeCommentRepo) DeleteByDinosaur(dinosaurID uint64) error {
	for id, c := range f.comments {
		if c.DinosaurID == dinosaurID {
			f.Delete(id)
		}
	}
	return nil
}

func (f *fakeCommentRepo) CountByDinosaur(dinosaurID uint64) (int64, error) {
	var count int64
	for _, c := range f.comments {
		if c.DinosaurID == dinosaurID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCommentRepo) WithTx(tx *gorm.DB) repository.CommentRepository { return f }

type fakeDinosaurRepo struct {
	dinosaurs map[uint64]*model.Dinosaur
}

func newFakeDinosaurRepo(ids ...uint64) *fakeDinosaurRepo {
	f := &fakeDinosaurRepo{dinosaurs: make(map[uint64]*model.Dinosaur)}
	for _, id := range ids {
		d := &model.Dinosaur{Name: "测试恐龙"}
		d.ID = id
		f.dinosaurs[id] = d
	}
	return f
}

func (f *fakeDinosaurRepo) Create(dinosaur *model.Dinosaur) error {
	f.dinosaurs[dinosaur.ID] = dinosaur
	return nil
}

func (f *fakeDinosaurRepo) FindAll(filter repository.DinosaurFilter) ([]model.Dinosaur, error) {
	var result []model.Dinosaur
	for _, d := range f.dinosaurs {
		result = append(result, *d)
	}
	return result, nil
}

func (f *fakeDinosaurRepo) FindByID(dinosaurID uint64) (*model.Dinosaur, error) {
	d, ok := f.dinosaurs[dinosaurID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (f *fakeDinosaurRepo) Update(dinosaur *model.Dinosaur) error { return nil }
func (f *fakeDinosaurRepo) Delete(dinosaurID uint64) error {
	delete(f.dinosaurs, dinosaurID)
	return nil
}
func (f *fakeDinosaurRepo) ReplaceHabitats(dinosaur *model.Dinosaur, habitats []model.Habitat) error {
	return nil
}
func (f *fakeDinosaurRepo) GetDinosaurCache(dinosaurID uint64) (*model.Dinosaur, error) {
	return nil, nil
}
func (f *fakeDinosaurRepo) SetDinosaurCache(dinosaur *model.Dinosaur) error { return nil }
func (f *fakeDinosaurRepo) DropDinosaurCache(dinosaurID uint64) error       { return nil }
func (f *fakeDinosaurRepo) WithTx(tx *gorm.DB) repository.DinosaurRepository {
	return f
}

// setupCommentService 搭一套全内存的服务，MQ传nil表示不发通知
func setupCommentService(dinosaurIDs ...uint64) (CommentService, *fakeCommentRepo, *fakeVoteRepo) {
	voteRepo := newFakeVoteRepo()
	commentRepo := newFakeCommentRepo(voteRepo)
	dinosaurRepo := newFakeDinosaurRepo(dinosaurIDs...)
	svc := NewCommentService(commentRepo, voteRepo, dinosaurRepo, nil)
	return svc, commentRepo, voteRepo
}

// 不接MQ时构造和回复都不该出事，通知只是静默跳过
func TestCommentServiceWithoutMQ(t *testing.T) {
	svc, _, _ := setupCommentService(1)

	parent, err := svc.Post(10, 1, "镰刀龙的爪子其实是吃素用的", nil)
	if err != nil {
		t.Fatalf("发表评论失败: %v", err)
	}
	// 回复会触发通知投递，conn为nil时必须安静地跳过
	if _, err := svc.Post(11, 1, "对，前肢化石能看出来", &parent.ID); err != nil {
		t.Fatalf("回复失败: %v", err)
	}
}

// ---- 投票规则 ----

// 同一个人连投两次，只保留最后的方向，绝不会变成两票
func TestVoteOverwritesPolarity(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	comment, err := svc.Post(1, 1, "好评", nil)
	if err != nil {
		t.Fatalf("发评论失败: %v", err)
	}

	if err := svc.Vote(comment.ID, 2, model.VotePositive); err != nil {
		t.Fatalf("第一次投票失败: %v", err)
	}
	if err := svc.Vote(comment.ID, 2, model.VoteNegative); err != nil {
		t.Fatalf("第二次投票失败: %v", err)
	}

	tree, err := svc.GetCommentTree(1, 2)
	if err != nil {
		t.Fatalf("获取评论树失败: %v", err)
	}
	tally := tree.Tallies[comment.ID]
	if tally.Positive != 0 || tally.Negative != 1 {
		t.Errorf("期望计数0/1，实际%d/%d", tally.Positive, tally.Negative)
	}
	if tree.ViewerVotes[comment.ID] != model.VoteNegative {
		t.Errorf("期望投票方向是negative，实际%q", tree.ViewerVotes[comment.ID])
	}
}

// 没投过就撤票不是错误，计数也不变
func TestUnvoteWithoutPriorVoteIsNoop(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	comment, _ := svc.Post(1, 1, "好评", nil)

	if err := svc.Unvote(comment.ID, 99); err != nil {
		t.Fatalf("空撤票不应该报错: %v", err)
	}
	tree, _ := svc.GetCommentTree(1, 0)
	if tally := tree.Tallies[comment.ID]; tally.Positive != 0 || tally.Negative != 0 {
		t.Errorf("期望计数0/0，实际%d/%d", tally.Positive, tally.Negative)
	}
}

func TestVoteValidation(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	comment, _ := svc.Post(1, 1, "好评", nil)

	if err := svc.Vote(comment.ID, 2, "sideways"); err != ErrInvalidPolarity {
		t.Errorf("非法方向期望ErrInvalidPolarity，实际%v", err)
	}
	if err := svc.Vote(9999, 2, model.VotePositive); err != ErrCommentNotFound {
		t.Errorf("评论不存在期望ErrCommentNotFound，实际%v", err)
	}
}

// ---- 删除级联 ----

// 删掉带回复的一级评论，它和它所有回复的评论行、投票行都要消失
func TestDeleteCascadesToRepliesAndVotes(t *testing.T) {
	svc, commentRepo, voteRepo := setupCommentService(1)

	parent, _ := svc.Post(1, 1, "一级评论", nil)
	reply1, _ := svc.Post(2, 1, "回复一", &parent.ID)
	reply2, _ := svc.Post(3, 1, "回复二", &parent.ID)

	svc.Vote(parent.ID, 2, model.VotePositive)
	svc.Vote(reply1.ID, 3, model.VoteNegative)
	svc.Vote(reply2.ID, 1, model.VotePositive)

	admin := Viewer{ID: 99, Role: model.RoleAdmin}
	if err := svc.Remove(parent.ID, admin); err != nil {
		t.Fatalf("管理员删除失败: %v", err)
	}

	for _, id := range []uint64{parent.ID, reply1.ID, reply2.ID} {
		if _, ok := commentRepo.comments[id]; ok {
			t.Errorf("评论%d应该已被删除", id)
		}
	}
	if len(voteRepo.votes) != 0 {
		t.Errorf("投票应该全部级联删除，还剩%d条", len(voteRepo.votes))
	}
}

// ---- 权限与编辑 ----

// 路人（非作者非管理员）编辑被拒，内容和编辑时间都不动
func TestEditDeniedForStranger(t *testing.T) {
	svc, commentRepo, _ := setupCommentService(1)
	comment, _ := svc.Post(1, 1, "原始内容", nil)

	stranger := Viewer{ID: 2, Role: model.RoleUser}
	if err := svc.Edit(comment.ID, stranger, "篡改内容"); err != ErrNotAllowed {
		t.Fatalf("期望ErrNotAllowed，实际%v", err)
	}

	stored := commentRepo.comments[comment.ID]
	if stored.Content != "原始内容" {
		t.Errorf("内容不应该被修改，实际%q", stored.Content)
	}
	if stored.EditedAt != nil {
		t.Error("EditedAt不应该被盖章")
	}
}

// 作者编辑成功，内容更新且EditedAt不早于CreatedAt
func TestEditByAuthorStampsEditedAt(t *testing.T) {
	svc, commentRepo, _ := setupCommentService(1)
	comment, _ := svc.Post(1, 1, "原始内容", nil)

	author := Viewer{ID: 1, Role: model.RoleUser}
	if err := svc.Edit(comment.ID, author, "修订后的内容"); err != nil {
		t.Fatalf("作者编辑失败: %v", err)
	}

	stored := commentRepo.comments[comment.ID]
	if stored.Content != "修订后的内容" {
		t.Errorf("内容未更新，实际%q", stored.Content)
	}
	if stored.EditedAt == nil {
		t.Fatal("EditedAt应该被盖章")
	}
	if stored.EditedAt.Before(stored.CreatedAt) {
		t.Error("EditedAt不应该早于CreatedAt")
	}
}

func TestEditMissingComment(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	viewer := Viewer{ID: 1, Role: model.RoleUser}
	if err := svc.Edit(404, viewer, "新内容"); err != ErrCommentNotFound {
		t.Errorf("期望ErrCommentNotFound，实际%v", err)
	}
	if err := svc.Remove(404, viewer); err != ErrCommentNotFound {
		t.Errorf("期望ErrCommentNotFound，实际%v", err)
	}
}

// ---- 发评论的校验 ----

func TestPostValidation(t *testing.T) {
	svc, _, _ := setupCommentService(1)

	if _, err := svc.Post(1, 1, "   ", nil); err != ErrEmptyContent {
		t.Errorf("空白内容期望ErrEmptyContent，实际%v", err)
	}
	if _, err := svc.Post(1, 9999, "内容", nil); err != ErrDinosaurNotFound {
		t.Errorf("恐龙不存在期望ErrDinosaurNotFound，实际%v", err)
	}
	missing := uint64(9999)
	if _, err := svc.Post(1, 1, "内容", &missing); err != ErrCommentNotFound {
		t.Errorf("父评论不存在期望ErrCommentNotFound，实际%v", err)
	}
}

// 回复必须挂在同一只恐龙的评论下，挂错主体要被拒绝
func TestCrossSubjectReplyRejected(t *testing.T) {
	svc, _, _ := setupCommentService(1, 2)
	parent, _ := svc.Post(1, 1, "一号恐龙下的评论", nil)

	if _, err := svc.Post(2, 2, "想挂到二号恐龙", &parent.ID); err != ErrWrongSubject {
		t.Errorf("跨主体回复期望ErrWrongSubject，实际%v", err)
	}
}

// ---- 评论树装配 ----

// 匿名访客（viewerID=0）的树里不应该有任何“我投过的票”
func TestAnonymousTreeHasNoViewerVotes(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	comment, _ := svc.Post(1, 1, "评论", nil)
	svc.Vote(comment.ID, 2, model.VotePositive)

	tree, err := svc.GetCommentTree(1, 0)
	if err != nil {
		t.Fatalf("匿名获取评论树失败: %v", err)
	}
	if len(tree.ViewerVotes) != 0 {
		t.Errorf("匿名访客不应该有投票标注，实际%d条", len(tree.ViewerVotes))
	}
	// 计数对谁都可见
	if tally := tree.Tallies[comment.ID]; tally.Positive != 1 {
		t.Errorf("期望1个赞，实际%d", tally.Positive)
	}
}

// 一级评论倒序、回复正序、回复挂对父节点
func TestTreeOrderingAndMounting(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	first, _ := svc.Post(1, 1, "最早的评论", nil)
	second, _ := svc.Post(2, 1, "较新的评论", nil)
	replyOld, _ := svc.Post(3, 1, "先到的回复", &first.ID)
	replyNew, _ := svc.Post(4, 1, "后到的回复", &first.ID)

	tree, err := svc.GetCommentTree(1, 0)
	if err != nil {
		t.Fatalf("获取评论树失败: %v", err)
	}
	if len(tree.Parents) != 2 {
		t.Fatalf("期望2条一级评论，实际%d", len(tree.Parents))
	}
	if tree.Parents[0].ID != second.ID || tree.Parents[1].ID != first.ID {
		t.Error("一级评论应该按时间倒序（新的在前）")
	}
	replies := tree.Replies[first.ID]
	if len(replies) != 2 {
		t.Fatalf("期望一级评论下有2条回复，实际%d", len(replies))
	}
	if replies[0].ID != replyOld.ID || replies[1].ID != replyNew.ID {
		t.Error("回复应该按时间正序（先来的在前）")
	}
	if len(tree.Replies[second.ID]) != 0 {
		t.Error("没有回复的评论不应该有挂载")
	}
}

func TestTreeForMissingDinosaur(t *testing.T) {
	svc, _, _ := setupCommentService(1)
	if _, err := svc.GetCommentTree(9999, 0); err != ErrDinosaurNotFound {
		t.Errorf("期望ErrDinosaurNotFound，实际%v", err)
	}
}

// ---- 端到端走一遍完整的讨论生命周期 ----

func TestCommentLifecycle(t *testing.T) {
	const subjectID = uint64(42)
	svc, _, voteRepo := setupCommentService(subjectID)

	// 用户1发一级评论
	commentA, err := svc.Post(1, subjectID, "Great find", nil)
	if err != nil {
		t.Fatalf("发评论失败: %v", err)
	}
	tree, _ := svc.GetCommentTree(subjectID, 0)
	if len(tree.Parents) != 1 {
		t.Fatalf("期望1条一级评论，实际%d", len(tree.Parents))
	}
	if tally := tree.Tallies[commentA.ID]; tally.Positive != 0 || tally.Negative != 0 {
		t.Errorf("新评论期望0/0，实际%d/%d", tally.Positive, tally.Negative)
	}

	// 用户2点赞
	if err := svc.Vote(commentA.ID, 2, model.VotePositive); err != nil {
		t.Fatalf("投票失败: %v", err)
	}
	tree, _ = svc.GetCommentTree(subjectID, 2)
	if tally := tree.Tallies[commentA.ID]; tally.Positive != 1 || tally.Negative != 0 {
		t.Errorf("期望1/0，实际%d/%d", tally.Positive, tally.Negative)
	}
	if tree.ViewerVotes[commentA.ID] != model.VotePositive {
		t.Errorf("期望positive，实际%q", tree.ViewerVotes[commentA.ID])
	}

	// 用户1回复
	commentB, err := svc.Post(1, subjectID, "Thanks!", &commentA.ID)
	if err != nil {
		t.Fatalf("发回复失败: %v", err)
	}
	tree, _ = svc.GetCommentTree(subjectID, 0)
	if replies := tree.Replies[commentA.ID]; len(replies) != 1 || replies[0].ID != commentB.ID {
		t.Error("一级评论下应该正好挂着这条回复")
	}

	// 管理员删除一级评论，整棵树和投票一起消失
	admin := Viewer{ID: 99, Role: model.RoleAdmin}
	if err := svc.Remove(commentA.ID, admin); err != nil {
		t.Fatalf("管理员删除失败: %v", err)
	}
	tree, _ = svc.GetCommentTree(subjectID, 2)
	if len(tree.Parents) != 0 {
		t.Errorf("删除后一级评论列表应该为空，实际%d条", len(tree.Parents))
	}
	if polarity, _ := voteRepo.VoteOf(commentA.ID, 2); polarity != "" {
		t.Errorf("删除后投票行应该消失，实际还有%q", polarity)
	}
}

// BenchmarkGetCommentTree 模拟详情页评论区的高并发读
func BenchmarkGetCommentTree(b *testing.B) {
	svc, _, _ := setupCommentService(1)
	for i := 0; i < 50; i++ {
		parent, _ := svc.Post(uint64(i%10+1), 1, "一级评论", nil)
		svc.Post(uint64(i%10+2), 1, "回复", &parent.ID)
		svc.Vote(parent.ID, uint64(i%10+3), model.VotePositive)
	}

	b.ResetTimer() // 重置计时器，忽略前面的准备时间

	// b.N 是由 testing 框架决定的一个巨大数字，代表执行次数
	// 用 b.RunParallel 来模拟高并发
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := svc.GetCommentTree(1, 0); err != nil {
				b.Errorf("GetCommentTree failed: %v", err)
			}
		}
	})
}
