package handler

import (
	"Dino_Museum/internal/dto"
	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	CreateComment(c *gin.Context)
	EditComment(c *gin.Context)
	DeleteComment(c *gin.Context)

	VoteComment(c *gin.Context)
	UnvoteComment(c *gin.Context)

	GetComments(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{
		CommentService: commentService,
	}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *uint64 `json:"parent_id"` // 带上就是回复，不带就是一级评论
}

type EditCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type VoteRequest struct {
	Polarity string `json:"polarity" binding:"required"`
}

// viewerFromContext 从context中取出认证中间件放进去的身份信息。
// 因为jwt.MapClaims中的数字会自动解析为float64，而context中的值又会被转化为interface{}，所以要先断言再转类型
func viewerFromContext(c *gin.Context) (service.Viewer, bool) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		return service.Viewer{}, false
	}
	viewer := service.Viewer{ID: uint64(userIDFloat.(float64))}
	if role, ok := c.Get("role"); ok {
		viewer.Role = role.(string)
	}
	return viewer, true
}

// 发评论/回复：1、解析URL中的dinosaurID参数 2、解析Body，parent_id可选 3、获取context中的userID（jwt） 4、创建评论并返回状态
func (h *commentHandler) CreateComment(c *gin.Context) {
	// URL解析参数获得string格式，利用strconv.ParseUint将string转化为uint64
	dinosaurID, err := strconv.ParseUint(c.Param("dinosaur_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的恐龙ID")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数") // 400
		return
	}

	viewer, exists := viewerFromContext(c)
	// 防御性编程，正常路由上肯定挂了jwt中间件，但是就怕程序员误用
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return
	}

	// 正式进入业务前，将logger格式整理好
	logCtx := logger.Log.WithField("user_id", viewer.ID).WithField("dinosaur_id", dinosaurID)
	logCtx.Info("开始创建评论")
	comment, err := h.CommentService.Post(viewer.ID, dinosaurID, req.Content, req.ParentID)
	if err != nil {
		logCtx.WithError(err).Error("创建评论失败")
		switch {
		case errors.Is(err, service.ErrDinosaurNotFound), errors.Is(err, service.ErrCommentNotFound):
			sendErrorResponse(c, http.StatusNotFound, err.Error()) // 404
		case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrWrongSubject):
			sendErrorResponse(c, http.StatusBadRequest, err.Error()) // 400
		default:
			sendErrorResponse(c, http.StatusInternalServerError, "评论失败") // 500
		}
		return
	}
	// 业务成功，打上返回的comment的ID
	logCtx.WithField("comment_id", comment.ID).Info("评论创建成功")
	c.JSON(http.StatusCreated, gin.H{ //201
		"message": "评论成功",
		"data":    dto.ToCommentResponse(comment),
	})
}

// 编辑评论：只有作者或管理员可以。404和403在这里分开返回，调用方能分清“没这条”和“不归你管”
func (h *commentHandler) EditComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	var req EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数") // 400
		return
	}
	viewer, exists := viewerFromContext(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return
	}

	logCtx := logger.Log.WithField("user_id", viewer.ID).WithField("comment_id", commentID)
	if err := h.CommentService.Edit(commentID, viewer, req.Content); err != nil {
		logCtx.WithError(err).Warn("编辑评论被拒绝")
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			sendErrorResponse(c, http.StatusNotFound, err.Error()) // 404
		case errors.Is(err, service.ErrNotAllowed):
			sendErrorResponse(c, http.StatusForbidden, err.Error()) // 403
		case errors.Is(err, service.ErrEmptyContent):
			sendErrorResponse(c, http.StatusBadRequest, err.Error()) // 400
		default:
			sendErrorResponse(c, http.StatusInternalServerError, "编辑失败") // 500
		}
		return
	}
	logCtx.Info("评论编辑成功")
	c.JSON(http.StatusOK, gin.H{"message": "编辑成功"})
}

// 删除评论：权限同编辑，删除后子回复和投票由数据库级联清掉
func (h *commentHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	viewer, exists := viewerFromContext(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return
	}

	logCtx := logger.Log.WithField("user_id", viewer.ID).WithField("comment_id", commentID)
	if err := h.CommentService.Remove(commentID, viewer); err != nil {
		logCtx.WithError(err).Warn("删除评论被拒绝")
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			sendErrorResponse(c, http.StatusNotFound, err.Error()) // 404
		case errors.Is(err, service.ErrNotAllowed):
			sendErrorResponse(c, http.StatusForbidden, err.Error()) // 403
		default:
			sendErrorResponse(c, http.StatusInternalServerError, "删除失败") // 500
		}
		return
	}
	logCtx.Info("评论删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// 投票：方向只有positive/negative两种，重复投票是覆盖方向而不是叠加票数
func (h *commentHandler) VoteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数") // 400
		return
	}
	viewer, exists := viewerFromContext(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return
	}

	logCtx := logger.Log.WithField("user_id", viewer.ID).WithField("comment_id", commentID)
	if err := h.CommentService.Vote(commentID, viewer.ID, req.Polarity); err != nil {
		logCtx.WithError(err).Error("投票失败")
		switch {
		case errors.Is(err, service.ErrInvalidPolarity):
			sendErrorDetailResponse(c, http.StatusBadRequest, err.Error(), "方向只能是positive或negative") // 400
		case errors.Is(err, service.ErrCommentNotFound):
			sendErrorResponse(c, http.StatusNotFound, err.Error()) // 404
		default:
			sendErrorResponse(c, http.StatusInternalServerError, "投票失败") // 500
		}
		return
	}
	logCtx.WithField("polarity", req.Polarity).Info("投票成功")
	c.JSON(http.StatusOK, gin.H{"message": "投票成功"})
}

// 撤票：没投过也返回成功，撤销本来就是幂等的
func (h *commentHandler) UnvoteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	viewer, exists := viewerFromContext(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return
	}

	if err := h.CommentService.Unvote(commentID, viewer.ID); err != nil {
		logger.Log.WithError(err).WithField("comment_id", commentID).Error("撤票失败")
		sendErrorResponse(c, http.StatusInternalServerError, "撤票失败") // 500
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已撤销投票"})
}

// 获取一只恐龙的整棵讨论树 1、提取URL中dinosaurID参数 2、viewer身份可选（匿名能看，只是没有viewer_vote） 3、service装配树 4、dto层挂载二级评论并标注票数
func (h *commentHandler) GetComments(c *gin.Context) {
	dinosaurID, err := strconv.ParseUint(c.Param("dinosaur_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的恐龙ID") // 400
		return
	}

	// 这条路由挂的是可选认证，没登录viewerID就是0
	var viewerID uint64
	if viewer, ok := viewerFromContext(c); ok {
		viewerID = viewer.ID
	}

	tree, err := h.CommentService.GetCommentTree(dinosaurID, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrDinosaurNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error()) // 404
			return
		}
		sendErrorResponse(c, http.StatusInternalServerError, "获取评论列表失败") // 500
		return
	}
	response := dto.ToCommentResponses(tree.Parents, tree.Replies, tree.Tallies, tree.ViewerVotes)

	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论列表成功",
		"data":    response,
	})
}
