package handler

import (
	"Dino_Museum/internal/model"
	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// TaxonomyHandler 纪元/地区/栖息地三类基础数据的接口。
// 列表公开，增删改只留给管理员路由组
type TaxonomyHandler interface {
	ListEras(c *gin.Context)
	CreateEra(c *gin.Context)
	UpdateEra(c *gin.Context)
	DeleteEra(c *gin.Context)

	ListRegions(c *gin.Context)
	CreateRegion(c *gin.Context)
	UpdateRegion(c *gin.Context)
	DeleteRegion(c *gin.Context)

	ListHabitats(c *gin.Context)
	CreateHabitat(c *gin.Context)
	UpdateHabitat(c *gin.Context)
	DeleteHabitat(c *gin.Context)
}

type taxonomyHandler struct {
	TaxonomyService service.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService service.TaxonomyService) TaxonomyHandler {
	return &taxonomyHandler{TaxonomyService: taxonomyService}
}

type EraRequest struct {
	Name        string `json:"name" binding:"required"`
	PeriodStart int    `json:"period_start"`
	PeriodEnd   int    `json:"period_end"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type RegionRequest struct {
	Name        string `json:"name" binding:"required"`
	Country     string `json:"country"`
	Continent   string `json:"continent"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type HabitatRequest struct {
	Name        string `json:"name" binding:"required"`
	Environment string `json:"environment"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (h *taxonomyHandler) ListEras(c *gin.Context) {
	eras, err := h.TaxonomyService.ListEras()
	if err != nil {
		logger.Log.WithError(err).Error("获取纪元列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取纪元列表失败")
		return
	}
	// 基础数据字段都可以公开，直接返回model
	c.JSON(http.StatusOK, gin.H{"data": eras})
}

func (h *taxonomyHandler) CreateEra(c *gin.Context) {
	var req EraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	era := &model.Era{
		Name:        req.Name,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.TaxonomyService.CreateEra(era); err != nil {
		logger.Log.WithError(err).Error("创建纪元失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "纪元创建成功", "data": era})
}

func (h *taxonomyHandler) UpdateEra(c *gin.Context) {
	eraID, err := strconv.ParseUint(c.Param("era_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的纪元ID")
		return
	}
	var req EraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	era := &model.Era{
		Name:        req.Name,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Description: req.Description,
		Image:       req.Image,
	}
	era.ID = eraID
	if err := h.TaxonomyService.UpdateEra(era); err != nil {
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "纪元更新成功", "data": era})
}

func (h *taxonomyHandler) DeleteEra(c *gin.Context) {
	eraID, err := strconv.ParseUint(c.Param("era_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的纪元ID")
		return
	}
	if err := h.TaxonomyService.DeleteEra(eraID); err != nil {
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "纪元已删除"})
}

func (h *taxonomyHandler) ListRegions(c *gin.Context) {
	regions, err := h.TaxonomyService.ListRegions()
	if err != nil {
		logger.Log.WithError(err).Error("获取地区列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取地区列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": regions})
}

func (h *taxonomyHandler) CreateRegion(c *gin.Context) {
	var req RegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	region := &model.Region{
		Name:        req.Name,
		Country:     req.Country,
		Continent:   req.Continent,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.TaxonomyService.CreateRegion(region); err != nil {
		logger.Log.WithError(err).Error("创建地区失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "地区创建成功", "data": region})
}

func (h *taxonomyHandler) UpdateRegion(c *gin.Context) {
	regionID, err := strconv.ParseUint(c.Param("region_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的地区ID")
		return
	}
	var req RegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	region := &model.Region{
		Name:        req.Name,
		Country:     req.Country,
		Continent:   req.Continent,
		Description: req.Description,
		Image:       req.Image,
	}
	region.ID = regionID
	if err := h.TaxonomyService.UpdateRegion(region); err != nil {
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "地区更新成功", "data": region})
}

func (h *taxonomyHandler) DeleteRegion(c *gin.Context) {
	regionID, err := strconv.ParseUint(c.Param("region_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的地区ID")
		return
	}
	if err := h.TaxonomyService.DeleteRegion(regionID); err != nil {
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "地区已删除"})
}

func (h *taxonomyHandler) ListHabitats(c *gin.Context) {
	habitats, err := h.TaxonomyService.ListHabitats()
	if err != nil {
		logger.Log.WithError(err).Error("获取栖息地列表失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取栖息地列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": habitats})
}

func (h *taxonomyHandler) CreateHabitat(c *gin.Context) {
	var req HabitatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	habitat := &model.Habitat{
		Name:        req.Name,
		Environment: req.Environment,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.TaxonomyService.CreateHabitat(habitat); err != nil {
		logger.Log.WithError(err).Error("创建栖息地失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "栖息地创建成功", "data": habitat})
}

func (h *taxonomyHandler) UpdateHabitat(c *gin.Context) {
	habitatID, err := strconv.ParseUint(c.Param("habitat_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的栖息地ID")
		return
	}
	var req HabitatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	habitat := &model.Habitat{
		Name:        req.Name,
		Environment: req.Environment,
		Description: req.Description,
		Image:       req.Image,
	}
	habitat.ID = habitatID
	if err := h.TaxonomyService.UpdateHabitat(habitat); err != nil {
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "栖息地更新成功", "data": habitat})
}

func (h *taxonomyHandler) DeleteHabitat(c *gin.Context) {
	habitatID, err := strconv.ParseUint(c.Param("habitat_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的栖息地ID")
		return
	}
	if err := h.TaxonomyService.DeleteHabitat(habitatID); err != nil {
		sendErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "栖息地已删除"})
}
