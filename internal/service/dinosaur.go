package service

import (
	"errors"
	"fmt"
	"strings"

	"Dino_Museum/internal/data"
	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// DinosaurInput 录入/编辑恐龙的全部字段，handler解析完请求后整体传进来
type DinosaurInput struct {
	Name        string
	Description string
	Kind        string
	Diet        string
	WeightKg    float64
	HeightM     float64
	LengthM     float64
	Image       string
	EraID       *uint64
	RegionID    *uint64
	HabitatIDs  []uint64
}

type DinosaurService interface {
	CreateDinosaur(creatorID uint64, input DinosaurInput) (*model.Dinosaur, error)
	UpdateDinosaur(dinosaurID uint64, input DinosaurInput) (*model.Dinosaur, error)
	// 下架恐龙：软删主表，同一个事务里硬删它的全部讨论
	DeleteDinosaur(dinosaurID uint64) error

	ListDinosaurs(filter repository.DinosaurFilter) ([]model.Dinosaur, error)
	GetDinosaurByID(dinosaurID uint64) (*model.Dinosaur, error)
}

type dinosaurService struct {
	sf singleflight.Group

	dinosaurRepo repository.DinosaurRepository
	habitatRepo  repository.HabitatRepository
	uow          data.UnitOfWork
}

func NewDinosaurService(dinosaurRepo repository.DinosaurRepository, habitatRepo repository.HabitatRepository, uow data.UnitOfWork) DinosaurService {
	return &dinosaurService{
		dinosaurRepo: dinosaurRepo,
		habitatRepo:  habitatRepo,
		uow:          uow,
	}
}

// 录入恐龙：1、名字必填 2、先把栖息地ID批量换成实体，顺便验证它们都存在
// 3、主表行和N对M关联放在同一个事务里写，避免出现“有恐龙没栖息地”的半成品
func (s *dinosaurService) CreateDinosaur(creatorID uint64, input DinosaurInput) (*model.Dinosaur, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("恐龙名字不能为空")
	}
	habitats, err := s.habitatRepo.FindByIDs(input.HabitatIDs)
	if err != nil {
		return nil, err
	}
	if len(habitats) != len(input.HabitatIDs) {
		return nil, errors.New("存在无效的栖息地ID")
	}

	newDinosaur := &model.Dinosaur{
		Name:        input.Name,
		Description: input.Description,
		Kind:        input.Kind,
		Diet:        input.Diet,
		WeightKg:    input.WeightKg,
		HeightM:     input.HeightM,
		LengthM:     input.LengthM,
		Image:       input.Image,
		EraID:       input.EraID,
		RegionID:    input.RegionID,
		CreatorID:   creatorID,
	}
	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.DinosaurRepo.Create(newDinosaur); err != nil {
			return err
		}
		if len(habitats) > 0 {
			return repos.DinosaurRepo.ReplaceHabitats(newDinosaur, habitats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.dinosaurRepo.FindByID(newDinosaur.ID)
}

// 编辑恐龙，逻辑和录入一致：验证栖息地，然后主表+关联一个事务写完
func (s *dinosaurService) UpdateDinosaur(dinosaurID uint64, input DinosaurInput) (*model.Dinosaur, error) {
	dinosaur, err := s.dinosaurRepo.FindByID(dinosaurID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDinosaurNotFound
		}
		return nil, err
	}
	habitats, err := s.habitatRepo.FindByIDs(input.HabitatIDs)
	if err != nil {
		return nil, err
	}
	if len(habitats) != len(input.HabitatIDs) {
		return nil, errors.New("存在无效的栖息地ID")
	}

	dinosaur.Name = input.Name
	dinosaur.Description = input.Description
	dinosaur.Kind = input.Kind
	dinosaur.Diet = input.Diet
	dinosaur.WeightKg = input.WeightKg
	dinosaur.HeightM = input.HeightM
	dinosaur.LengthM = input.LengthM
	dinosaur.Image = input.Image
	dinosaur.EraID = input.EraID
	dinosaur.RegionID = input.RegionID
	// Save之前清掉Preload进来的旧关联，不然gorm会把它们当成要更新的嵌套对象
	dinosaur.Era = nil
	dinosaur.Region = nil
	dinosaur.Habitats = nil
	dinosaur.Creator = model.User{}

	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.DinosaurRepo.Update(dinosaur); err != nil {
			return err
		}
		return repos.DinosaurRepo.ReplaceHabitats(dinosaur, habitats)
	})
	if err != nil {
		return nil, err
	}
	// 事务副本里没有Redis，这里再补一刀缓存失效
	_ = s.dinosaurRepo.DropDinosaurCache(dinosaurID)
	return s.dinosaurRepo.FindByID(dinosaurID)
}

// 下架恐龙：恐龙是软删除（图鉴可能要恢复），但讨论区直接硬删——
// 软删除不触发外键，所以评论要在同一个事务里由应用层清掉，投票再由外键跟着评论走
func (s *dinosaurService) DeleteDinosaur(dinosaurID uint64) error {
	if _, err := s.dinosaurRepo.FindByID(dinosaurID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDinosaurNotFound
		}
		return err
	}
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.CommentRepo.DeleteByDinosaur(dinosaurID); err != nil {
			return err
		}
		return repos.DinosaurRepo.Delete(dinosaurID)
	})
	if err != nil {
		return err
	}
	_ = s.dinosaurRepo.DropDinosaurCache(dinosaurID)
	return nil
}

func (s *dinosaurService) ListDinosaurs(filter repository.DinosaurFilter) ([]model.Dinosaur, error) {
	return s.dinosaurRepo.FindAll(filter)
}

// 根据dinosaurID查找恐龙：1、查找Redis缓存 2、通过SingleFlight进行数据库查找，
// 缓存失效瞬间的一堆并发请求只有一个真正打到MySQL
func (s *dinosaurService) GetDinosaurByID(dinosaurID uint64) (*model.Dinosaur, error) {
	dinosaur, err := s.dinosaurRepo.GetDinosaurCache(dinosaurID)
	if err == nil && dinosaur != nil {
		return dinosaur, nil
	}
	// 缓存未命中，通过SingleFlight查找
	key := fmt.Sprintf("get_dinosaur_%d", dinosaurID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbDinosaur, dbErr := s.dinosaurRepo.FindByID(dinosaurID)
		if dbErr != nil {
			return nil, dbErr
		}
		return dbDinosaur, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDinosaurNotFound
		}
		return nil, err
	}
	// 返回值是interface{}结构，需要断言
	return result.(*model.Dinosaur), nil
}
