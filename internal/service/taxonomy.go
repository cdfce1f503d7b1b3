package service

import (
	"errors"
	"strings"

	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"

	"gorm.io/gorm"
)

// TaxonomyService 纪元/地区/栖息地的增删改查。三类实体都是单表数据，
// 逻辑薄到没必要一个实体一个service，集中放在这里
type TaxonomyService interface {
	ListEras() ([]model.Era, error)
	CreateEra(era *model.Era) error
	UpdateEra(era *model.Era) error
	DeleteEra(eraID uint64) error

	ListRegions() ([]model.Region, error)
	CreateRegion(region *model.Region) error
	UpdateRegion(region *model.Region) error
	DeleteRegion(regionID uint64) error

	ListHabitats() ([]model.Habitat, error)
	CreateHabitat(habitat *model.Habitat) error
	UpdateHabitat(habitat *model.Habitat) error
	DeleteHabitat(habitatID uint64) error
}

type taxonomyService struct {
	eraRepo     repository.EraRepository
	regionRepo  repository.RegionRepository
	habitatRepo repository.HabitatRepository
}

func NewTaxonomyService(eraRepo repository.EraRepository, regionRepo repository.RegionRepository, habitatRepo repository.HabitatRepository) TaxonomyService {
	return &taxonomyService{
		eraRepo:     eraRepo,
		regionRepo:  regionRepo,
		habitatRepo: habitatRepo,
	}
}

var errEmptyName = errors.New("名字不能为空")

func (s *taxonomyService) ListEras() ([]model.Era, error) {
	return s.eraRepo.FindAll()
}

func (s *taxonomyService) CreateEra(era *model.Era) error {
	if strings.TrimSpace(era.Name) == "" {
		return errEmptyName
	}
	return s.eraRepo.Create(era)
}

func (s *taxonomyService) UpdateEra(era *model.Era) error {
	if _, err := s.eraRepo.FindByID(era.ID); err != nil {
		return translateNotFound(err, "纪元不存在")
	}
	return s.eraRepo.Update(era)
}

func (s *taxonomyService) DeleteEra(eraID uint64) error {
	if _, err := s.eraRepo.FindByID(eraID); err != nil {
		return translateNotFound(err, "纪元不存在")
	}
	return s.eraRepo.Delete(eraID)
}

func (s *taxonomyService) ListRegions() ([]model.Region, error) {
	return s.regionRepo.FindAll()
}

func (s *taxonomyService) CreateRegion(region *model.Region) error {
	if strings.TrimSpace(region.Name) == "" {
		return errEmptyName
	}
	return s.regionRepo.Create(region)
}

func (s *taxonomyService) UpdateRegion(region *model.Region) error {
	if _, err := s.regionRepo.FindByID(region.ID); err != nil {
		return translateNotFound(err, "地区不存在")
	}
	return s.regionRepo.Update(region)
}

func (s *taxonomyService) DeleteRegion(regionID uint64) error {
	if _, err := s.regionRepo.FindByID(regionID); err != nil {
		return translateNotFound(err, "地区不存在")
	}
	return s.regionRepo.Delete(regionID)
}

func (s *taxonomyService) ListHabitats() ([]model.Habitat, error) {
	return s.habitatRepo.FindAll()
}

func (s *taxonomyService) CreateHabitat(habitat *model.Habitat) error {
	if strings.TrimSpace(habitat.Name) == "" {
		return errEmptyName
	}
	return s.habitatRepo.Create(habitat)
}

func (s *taxonomyService) UpdateHabitat(habitat *model.Habitat) error {
	if _, err := s.habitatRepo.FindByID(habitat.ID); err != nil {
		return translateNotFound(err, "栖息地不存在")
	}
	return s.habitatRepo.Update(habitat)
}

func (s *taxonomyService) DeleteHabitat(habitatID uint64) error {
	if _, err := s.habitatRepo.FindByID(habitatID); err != nil {
		return translateNotFound(err, "栖息地不存在")
	}
	return s.habitatRepo.Delete(habitatID)
}

// gorm的“没找到”翻译成带实体名的业务错误，其他错误原样上抛
func translateNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(message)
	}
	return err
}
