package repository

import (
	"Dino_Museum/internal/model"

	"gorm.io/gorm"
)

// 纪元/地区/栖息地三张表的仓库。这三类数据都是简单的单表CRUD，
// 形状完全一样，就放在一个文件里，省得三个文件各抄一遍

type EraRepository interface {
	Create(era *model.Era) error
	FindAll() ([]model.Era, error)
	FindByID(eraID uint64) (*model.Era, error)
	Update(era *model.Era) error
	Delete(eraID uint64) error
}

type eraRepository struct {
	db *gorm.DB
}

func NewEraRepository(db *gorm.DB) EraRepository {
	return &eraRepository{db: db}
}

func (r *eraRepository) Create(era *model.Era) error {
	return r.db.Create(era).Error
}

func (r *eraRepository) FindAll() ([]model.Era, error) {
	var eras []model.Era
	// 按时间线排，最古老的纪元在前
	err := r.db.Order("period_start desc").Find(&eras).Error
	return eras, err
}

func (r *eraRepository) FindByID(eraID uint64) (*model.Era, error) {
	var era model.Era
	err := r.db.First(&era, eraID).Error
	if err != nil {
		return nil, err
	}
	return &era, nil
}

func (r *eraRepository) Update(era *model.Era) error {
	return r.db.Save(era).Error
}

func (r *eraRepository) Delete(eraID uint64) error {
	return r.db.Delete(&model.Era{}, eraID).Error
}

type RegionRepository interface {
	Create(region *model.Region) error
	FindAll() ([]model.Region, error)
	FindByID(regionID uint64) (*model.Region, error)
	Update(region *model.Region) error
	Delete(regionID uint64) error
}

type regionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) Create(region *model.Region) error {
	return r.db.Create(region).Error
}

func (r *regionRepository) FindAll() ([]model.Region, error) {
	var regions []model.Region
	err := r.db.Order("name asc").Find(&regions).Error
	return regions, err
}

func (r *regionRepository) FindByID(regionID uint64) (*model.Region, error) {
	var region model.Region
	err := r.db.First(&region, regionID).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *regionRepository) Update(region *model.Region) error {
	return r.db.Save(region).Error
}

func (r *regionRepository) Delete(regionID uint64) error {
	return r.db.Delete(&model.Region{}, regionID).Error
}

type HabitatRepository interface {
	Create(habitat *model.Habitat) error
	FindAll() ([]model.Habitat, error)
	FindByID(habitatID uint64) (*model.Habitat, error)
	FindByIDs(habitatIDs []uint64) ([]model.Habitat, error)
	Update(habitat *model.Habitat) error
	Delete(habitatID uint64) error
}

type habitatRepository struct {
	db *gorm.DB
}

func NewHabitatRepository(db *gorm.DB) HabitatRepository {
	return &habitatRepository{db: db}
}

func (r *habitatRepository) Create(habitat *model.Habitat) error {
	return r.db.Create(habitat).Error
}

func (r *habitatRepository) FindAll() ([]model.Habitat, error) {
	var habitats []model.Habitat
	err := r.db.Order("name asc").Find(&habitats).Error
	return habitats, err
}

func (r *habitatRepository) FindByID(habitatID uint64) (*model.Habitat, error) {
	var habitat model.Habitat
	err := r.db.First(&habitat, habitatID).Error
	if err != nil {
		return nil, err
	}
	return &habitat, nil
}

// FindByIDs 批量找栖息地，给恐龙挂关联之前先确认这些ID都真实存在
func (r *habitatRepository) FindByIDs(habitatIDs []uint64) ([]model.Habitat, error) {
	var habitats []model.Habitat
	if len(habitatIDs) == 0 {
		return habitats, nil
	}
	err := r.db.Where("id IN (?)", habitatIDs).Find(&habitats).Error
	return habitats, err
}

func (r *habitatRepository) Update(habitat *model.Habitat) error {
	return r.db.Save(habitat).Error
}

func (r *habitatRepository) Delete(habitatID uint64) error {
	return r.db.Delete(&model.Habitat{}, habitatID).Error
}
