package handler

import (
	"Dino_Museum/internal/dto"
	"Dino_Museum/internal/repository"
	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DinosaurHandler interface {
	CreateDinosaur(c *gin.Context)
	UpdateDinosaur(c *gin.Context)
	DeleteDinosaur(c *gin.Context)

	GetDinosaurByID(c *gin.Context)
	ListDinosaurs(c *gin.Context)
}

type dinosaurHandler struct {
	DinosaurService service.DinosaurService
	CommentService  service.CommentService
}

func NewDinosaurHandler(dinosaurService service.DinosaurService, commentService service.CommentService) DinosaurHandler {
	return &dinosaurHandler{
		DinosaurService: dinosaurService,
		CommentService:  commentService,
	}
}

type DinosaurRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Diet        string   `json:"diet"`
	WeightKg    float64  `json:"weight_kg"`
	HeightM     float64  `json:"height_m"`
	LengthM     float64  `json:"length_m"`
	Image       string   `json:"image"`
	EraID       *uint64  `json:"era_id"`
	RegionID    *uint64  `json:"region_id"`
	HabitatIDs  []uint64 `json:"habitat_ids"`
}

func (r *DinosaurRequest) toInput() service.DinosaurInput {
	return service.DinosaurInput{
		Name:        r.Name,
		Description: r.Description,
		Kind:        r.Kind,
		Diet:        r.Diet,
		WeightKg:    r.WeightKg,
		HeightM:     r.HeightM,
		LengthM:     r.LengthM,
		Image:       r.Image,
		EraID:       r.EraID,
		RegionID:    r.RegionID,
		HabitatIDs:  r.HabitatIDs,
	}
}

// 录入恐龙（管理员）：1、提取URL的Body和context中的userID 2、service层在一个事务里写主表和栖息地关联 3、将返回的恐龙结构通过dto传回
func (h *dinosaurHandler) CreateDinosaur(c *gin.Context) {
	var req DinosaurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("录入恐龙参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	// 因为context中的userID是从jwt中间件中解析的，jwt.MapClaims中的数字相关会自动解析为float64，而context中的值又会被转化为interface{}
	userIDFloat, exists := c.Get("userID")
	// 防御性编程，正常路由上肯定挂了jwt+管理员中间件，但是就怕程序员误用
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	creatorID := uint64(userIDFloat.(float64))
	// 蛇形命名法（日志聚合平台ELK、前端JavaScript）
	logCtx := logger.Log.WithField("creator_id", creatorID)
	logCtx.Info("开始处理录入恐龙请求")

	dinosaur, err := h.DinosaurService.CreateDinosaur(creatorID, req.toInput())
	if err != nil {
		logCtx.WithError(err).Error("录入恐龙业务处理失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	// 没有赋值，临时追加上下文，避免污染后续其他日志
	logCtx.WithField("dinosaur_id", dinosaur.ID).Info("恐龙录入成功")

	// 使用DTO转换函数，来构建一个干净、安全的响应
	c.JSON(http.StatusCreated, gin.H{ // 使用201 Created状态码，更符合RESTful规范
		"message": "恐龙录入成功",
		"data":    dto.ToDinosaurResponse(dinosaur),
	})
}

// 更新恐龙（管理员）：参数形状和录入一致，整条记录连同栖息地关联一起换掉
func (h *dinosaurHandler) UpdateDinosaur(c *gin.Context) {
	dinosaurID, err := strconv.ParseUint(c.Param("dinosaur_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的恐龙ID")
		return
	}
	var req DinosaurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("dinosaur_id", dinosaurID)
	dinosaur, err := h.DinosaurService.UpdateDinosaur(dinosaurID, req.toInput())
	if err != nil {
		logCtx.WithError(err).Error("更新恐龙失败")
		if errors.Is(err, service.ErrDinosaurNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	logCtx.Info("恐龙更新成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "恐龙更新成功",
		"data":    dto.ToDinosaurResponse(dinosaur),
	})
}

// 下架恐龙（管理员）：主表软删，讨论区在同一个事务里硬删
func (h *dinosaurHandler) DeleteDinosaur(c *gin.Context) {
	dinosaurID, err := strconv.ParseUint(c.Param("dinosaur_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的恐龙ID")
		return
	}
	logCtx := logger.Log.WithField("dinosaur_id", dinosaurID)
	if err := h.DinosaurService.DeleteDinosaur(dinosaurID); err != nil {
		logCtx.WithError(err).Error("下架恐龙失败")
		if errors.Is(err, service.ErrDinosaurNotFound) {
			sendErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		sendErrorResponse(c, http.StatusInternalServerError, "下架失败")
		return
	}
	logCtx.Info("恐龙下架成功")
	c.JSON(http.StatusOK, gin.H{"message": "恐龙已下架"})
}

// 恐龙详情：带上讨论区的评论总数，方便前端画角标
func (h *dinosaurHandler) GetDinosaurByID(c *gin.Context) {
	dinosaurID, err := strconv.ParseUint(c.Param("dinosaur_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的恐龙ID")
		return
	}
	logCtx := logger.Log.WithField("dinosaur_id", dinosaurID)
	logCtx.Info("开始处理查找恐龙请求")
	dinosaur, err := h.DinosaurService.GetDinosaurByID(dinosaurID)
	if err != nil {
		// GetDinosaurByID 失败通常意味着资源不存在
		logCtx.WithError(err).Warn("查找恐龙失败")
		sendErrorResponse(c, http.StatusNotFound, "恐龙不存在")
		return
	}

	response := dto.ToDinosaurResponse(dinosaur)
	// 评论数查询失败不影响详情页主体，角标缺了就缺了
	if count, err := h.CommentService.CountComments(dinosaurID); err == nil {
		response.CommentCount = count
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// 图鉴列表：1、把查询参数拼成过滤条件 2、service层查询 3、dto层批量转换返回
func (h *dinosaurHandler) ListDinosaurs(c *gin.Context) {
	// 攻击溯源，用户分析，问题排查
	logCtx := logger.Log.WithField("ip", c.ClientIP())
	logCtx.Info("开始处理获取图鉴列表请求")

	filter := repository.DinosaurFilter{
		Search: c.Query("search"),
		Diet:   c.Query("diet"),
	}
	// 过滤参数都是可选的，解析失败当没传
	if eraID, err := strconv.ParseUint(c.Query("era_id"), 10, 64); err == nil {
		filter.EraID = eraID
	}
	if regionID, err := strconv.ParseUint(c.Query("region_id"), 10, 64); err == nil {
		filter.RegionID = regionID
	}

	dinosaurs, err := h.DinosaurService.ListDinosaurs(filter)
	if err != nil {
		logCtx.WithError(err).Error("获取图鉴列表业务处理失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取图鉴列表失败")
		return
	}

	response := dto.ToDinosaurResponses(dinosaurs)
	logCtx.WithField("count", len(response)).Info("成功获取图鉴列表")
	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取图鉴列表",
		"data":    response,
	})
}
