package service

import (
	"encoding/json"
	"errors"
	"strings"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
	"Dino_Museum/pkg/logger"

	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueReplyNotify = "museum.comment.reply.queue"
)

// ReplyMessage 回复通知的消息结构，消费者进程拿它去写notifications表
type ReplyMessage struct {
	RecipientID uint64 `json:"recipient_id"` // 被回复的人
	ActorID     uint64 `json:"actor_id"`     // 回复的人
	CommentID   uint64 `json:"comment_id"`   // 新回复的ID
	DinosaurID  uint64 `json:"dinosaur_id"`
}

// Viewer 当前操作者的身份，从认证中间件一路显式传下来，绝不放全局变量
type Viewer struct {
	ID   uint64
	Role string
}

// CommentTree 装配好的一棵讨论树的原材料：一级评论、挂载表、计数表、访客自己的投票表，
// 最终的响应形状由dto层拼
type CommentTree struct {
	Parents     []model.Comment
	Replies     map[uint64][]*model.Comment
	Tallies     map[uint64]repository.VoteTally
	ViewerVotes map[uint64]string
}

type CommentService interface {
	// 发评论或回复，parentID为nil时是一级评论
	Post(authorID, dinosaurID uint64, content string, parentID *uint64) (*model.Comment, error)
	// 编辑内容，只有作者或管理员可以
	Edit(commentID uint64, viewer Viewer, content string) error
	// 删除评论，权限同编辑；子回复和投票由存储层级联清掉
	Remove(commentID uint64, viewer Viewer) error

	// 投票，重复投票覆盖方向而不是叠加
	Vote(commentID, voterID uint64, polarity string) error
	// 撤票，没投过也不算错
	Unvote(commentID, voterID uint64) error

	// 获取一个恐龙的整棵讨论树，viewerID为0表示匿名访客
	GetCommentTree(dinosaurID, viewerID uint64) (*CommentTree, error)
	CountComments(dinosaurID uint64) (int64, error)
}

type commentService struct {
	commentRepo  repository.CommentRepository
	voteRepo     repository.VoteRepository
	dinosaurRepo repository.DinosaurRepository

	rabbitMQConn *amqp.Connection
}

func NewCommentService(commentRepo repository.CommentRepository, voteRepo repository.VoteRepository, dinosaurRepo repository.DinosaurRepository, conn *amqp.Connection) CommentService {
	// 测试和单进程部署可以不接MQ，conn传nil就只是不发通知
	if conn != nil {
		if ch, err := conn.Channel(); err != nil {
			// 打不开channel就先不声明，消费者那边也会声明同一个队列（幂等）
			logger.Log.WithError(err).Error("RabbitMQ打开Channel失败，跳过队列声明")
		} else {
			// 创建队列，有就不用创建（幂等）
			ch.QueueDeclare(QueueReplyNotify, true, false, false, false, nil)
			ch.Close()
		}
	}

	return &commentService{
		commentRepo:  commentRepo,
		voteRepo:     voteRepo,
		dinosaurRepo: dinosaurRepo,
		rabbitMQConn: conn,
	}
}

// canMutate 权限判定是个纯谓词：作者本人，或者管理员。没有继承没有角色表，就这一行
func canMutate(comment *model.Comment, viewer Viewer) bool {
	return viewer.ID == comment.UserID || viewer.Role == model.RoleAdmin
}

// 发评论：1、内容非空校验 2、确认恐龙存在 3、回复时确认父评论存在且属于同一只恐龙
// 4、落库后带着Preload的作者信息重新查出来 5、回复别人时异步发通知
func (s *commentService) Post(authorID, dinosaurID uint64, content string, parentID *uint64) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.dinosaurRepo.FindByID(dinosaurID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDinosaurNotFound
		}
		return nil, err
	}

	var parent *model.Comment
	if parentID != nil {
		var err error
		parent, err = s.commentRepo.FindByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		// 不变量：回复必须挂在同一只恐龙的评论下。表结构拦不住这种错位，只能在这里拦
		if parent.DinosaurID != dinosaurID {
			return nil, ErrWrongSubject
		}
	}

	newComment := &model.Comment{
		UserID:     authorID,
		DinosaurID: dinosaurID,
		Content:    content,
		ParentID:   parentID,
	}
	if err := s.commentRepo.Create(newComment); err != nil {
		return nil, err
	}

	// 回复了别人的评论就发通知消息；发送失败只记日志，评论本身已经成功了
	if parent != nil && parent.UserID != authorID {
		msg := ReplyMessage{
			RecipientID: parent.UserID,
			ActorID:     authorID,
			CommentID:   newComment.ID,
			DinosaurID:  dinosaurID,
		}
		if err := s.publishReplyMessage(msg); err != nil {
			logger.Log.WithError(err).
				WithField("comment_id", newComment.ID).
				Error("回复通知消息投递失败")
		}
	}

	// 创建成功后，立刻把它带着关联数据再查出来，FindByID能顺带Preload出作者User
	return s.commentRepo.FindByID(newComment.ID)
}

// 编辑评论：先查归属再过权限门，评论不存在和无权限是两种结果，调用方分别处理
func (s *commentService) Edit(commentID uint64, viewer Viewer, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 评论没了也按“不放行”处理（fail closed），但错误种类保留给边界
			return ErrCommentNotFound
		}
		return err
	}
	if !canMutate(comment, viewer) {
		return ErrNotAllowed
	}
	err = s.commentRepo.UpdateContent(commentID, content)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return err
}

// 删除评论：权限同编辑；真正的级联清理是数据库外键干的
func (s *commentService) Remove(commentID uint64, viewer Viewer) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if !canMutate(comment, viewer) {
		return ErrNotAllowed
	}
	return s.commentRepo.Delete(commentID)
}

// 投票：1、校验方向 2、确认评论还在 3、upsert，同一个人再投只会改方向不会加行
func (s *commentService) Vote(commentID, voterID uint64, polarity string) error {
	if !model.ValidPolarity(polarity) {
		return ErrInvalidPolarity
	}
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return s.voteRepo.Upsert(commentID, voterID, polarity)
}

// 撤票是幂等的：没投过就什么都不做
func (s *commentService) Unvote(commentID, voterID uint64) error {
	return s.voteRepo.Retract(commentID, voterID)
}

// 获取讨论树：1、确认恐龙存在 2、查一级评论 3、按父ID批量查回复并挂载 4、两级节点的ID合在一起，
// 批量查计数和访客自己的投票。回复下面就算还有更深的行也不再展开，页面只显示两级
func (s *commentService) GetCommentTree(dinosaurID, viewerID uint64) (*CommentTree, error) {
	if _, err := s.dinosaurRepo.FindByID(dinosaurID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDinosaurNotFound
		}
		return nil, err
	}

	parents, err := s.commentRepo.ListTopLevel(dinosaurID)
	if err != nil {
		return nil, err
	}

	tree := &CommentTree{
		Parents:     parents,
		Replies:     make(map[uint64][]*model.Comment),
		Tallies:     make(map[uint64]repository.VoteTally),
		ViewerVotes: make(map[uint64]string),
	}
	if len(parents) == 0 {
		return tree, nil // 没有一级评论，直接返回空树
	}

	// 创建切片，将每个一级评论的ID放入，方便回复查询
	parentIDs := make([]uint64, 0, len(parents))
	for _, pc := range parents {
		parentIDs = append(parentIDs, pc.ID)
	}
	// 一次性查询所有相关的回复
	replies, err := s.commentRepo.ListRepliesByParentIDs(parentIDs)
	if err != nil {
		return nil, err
	}
	// 在内存中进行数据编排，将回复挂载到对应的一级评论上
	allIDs := append([]uint64{}, parentIDs...)
	for i := range replies {
		reply := &replies[i]
		if reply.ParentID != nil {
			tree.Replies[*reply.ParentID] = append(tree.Replies[*reply.ParentID], reply)
		}
		allIDs = append(allIDs, reply.ID)
	}

	// 投票数据批量取。没有投票的评论在map里没有条目，取零值正好是0/0
	tree.Tallies, err = s.voteRepo.TallyByCommentIDs(allIDs)
	if err != nil {
		return nil, err
	}
	tree.ViewerVotes, err = s.voteRepo.VotesOfUser(allIDs, viewerID)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *commentService) CountComments(dinosaurID uint64) (int64, error) {
	return s.commentRepo.CountByDinosaur(dinosaurID)
}

// 私有方法，发送消息到RabbitMQ：1、创建channel 2、序列化ReplyMessage结构体 3、发布消息
func (s *commentService) publishReplyMessage(msg ReplyMessage) error {
	if s.rabbitMQConn == nil {
		return nil // 没接MQ，通知功能静默关闭
	}
	// 为每一个消息建立一个单独的channel，消息之间互不影响
	ch, err := s.rabbitMQConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return ch.Publish(
		"",               // exchange默认交换机
		QueueReplyNotify, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 确保消息持久化
		})
}
