package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"Dino_Museum/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// DinosaurFilter 图鉴列表页的筛选条件，零值字段表示不过滤
type DinosaurFilter struct {
	Search   string // 按名字或描述模糊搜索
	EraID    uint64
	RegionID uint64
	Diet     string
}

type DinosaurRepository interface {
	Create(dinosaur *model.Dinosaur) error
	FindAll(filter DinosaurFilter) ([]model.Dinosaur, error)
	FindByID(dinosaurID uint64) (*model.Dinosaur, error)
	Update(dinosaur *model.Dinosaur) error
	Delete(dinosaurID uint64) error
	// 重设恐龙的栖息地关联（N对M连接表整体替换）
	ReplaceHabitats(dinosaur *model.Dinosaur, habitats []model.Habitat) error

	// 详情页缓存，只缓存图鉴数据，评论和投票永远直查数据库
	GetDinosaurCache(dinosaurID uint64) (*model.Dinosaur, error)
	SetDinosaurCache(dinosaur *model.Dinosaur) error
	DropDinosaurCache(dinosaurID uint64) error

	WithTx(tx *gorm.DB) DinosaurRepository
}

type dinosaurRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDinosaurRepository(db *gorm.DB, rdb *redis.Client) DinosaurRepository {
	return &dinosaurRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回一个新的、使用事务的 dinosaurRepository 实例
// 事务中不操作Redis，所以rdb不带过去
func (r *dinosaurRepository) WithTx(tx *gorm.DB) DinosaurRepository {
	return &dinosaurRepository{
		db: tx,
	}
}

func (r *dinosaurRepository) Create(dinosaur *model.Dinosaur) error {
	return r.db.Create(dinosaur).Error
}

// FindAll 列表查询，筛选条件逐个叠加，按名字排序
func (r *dinosaurRepository) FindAll(filter DinosaurFilter) ([]model.Dinosaur, error) {
	var dinosaurs []model.Dinosaur
	// Preload在查询恐龙的同时，预加载关联的纪元、地区和栖息地信息
	query := r.db.Preload("Era").Preload("Region").Preload("Habitats")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.EraID != 0 {
		query = query.Where("era_id = ?", filter.EraID)
	}
	if filter.RegionID != 0 {
		query = query.Where("region_id = ?", filter.RegionID)
	}
	if filter.Diet != "" {
		query = query.Where("diet = ?", filter.Diet)
	}
	err := query.Order("name asc").Find(&dinosaurs).Error
	if err != nil {
		return nil, err
	}
	return dinosaurs, nil
}

// 利用dinosaurID找恐龙：1、先从缓存读 2、缓存未命中再查库并带上关联 3、写回缓存
func (r *dinosaurRepository) FindByID(dinosaurID uint64) (*model.Dinosaur, error) {
	// 1. 先从缓存读
	dinosaur, err := r.GetDinosaurCache(dinosaurID)
	if err == nil && dinosaur != nil {
		// 缓存命中，直接返回
		return dinosaur, nil
	}

	// 2. 缓存未命中，从数据库读
	var dbDinosaur model.Dinosaur
	err = r.db.
		Preload("Era").
		Preload("Region").
		Preload("Habitats").
		Preload("Creator").
		First(&dbDinosaur, dinosaurID).Error
	if err != nil {
		return nil, err // 数据库也没找到，就真的没有了
	}

	// 3. 读到数据后，写回缓存，方便下次读取
	_ = r.SetDinosaurCache(&dbDinosaur)

	return &dbDinosaur, nil
}

func (r *dinosaurRepository) Update(dinosaur *model.Dinosaur) error {
	if err := r.db.Save(dinosaur).Error; err != nil {
		return err
	}
	// 改完把缓存删掉，等下一次读的时候再回填，避免详情页读到旧数据
	_ = r.DropDinosaurCache(dinosaur.ID)
	return nil
}

func (r *dinosaurRepository) Delete(dinosaurID uint64) error {
	if err := r.db.Delete(&model.Dinosaur{}, dinosaurID).Error; err != nil {
		return err
	}
	_ = r.DropDinosaurCache(dinosaurID)
	return nil
}

// ReplaceHabitats 整体替换N对M关联，gorm的Association会维护连接表
func (r *dinosaurRepository) ReplaceHabitats(dinosaur *model.Dinosaur, habitats []model.Habitat) error {
	return r.db.Model(dinosaur).Association("Habitats").Replace(habitats)
}

// 返回存储单个恐龙详情的字符串Key
func (r *dinosaurRepository) keyDinosaurInfo(dinosaurID uint64) string {
	return fmt.Sprintf("dinosaur:info:%d", dinosaurID)
}

// 从Redis缓存中获取单个恐龙详情：1、利用dinosaurID组装key 2、拿key去rdb中找JSON 3、反序列化
func (r *dinosaurRepository) GetDinosaurCache(dinosaurID uint64) (*model.Dinosaur, error) {
	if r.rdb == nil {
		return nil, nil // 事务副本或消费者进程没有Redis，当成未命中
	}
	key := r.keyDinosaurInfo(dinosaurID)
	dinosaurJSON, err := r.rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, nil // 缓存不存在，但Redis正常工作
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	var dinosaur model.Dinosaur
	if err := json.Unmarshal([]byte(dinosaurJSON), &dinosaur); err != nil {
		return nil, err // JSON反序列化失败
	}
	return &dinosaur, nil
}

// 将单个恐龙详情存入Redis缓存，过期时间加上随机性防止缓存雪崩
func (r *dinosaurRepository) SetDinosaurCache(dinosaur *model.Dinosaur) error {
	if r.rdb == nil {
		return nil
	}
	key := r.keyDinosaurInfo(dinosaur.ID)
	dinosaurJSON, err := json.Marshal(dinosaur)
	if err != nil {
		return err // JSON序列化失败
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), key, dinosaurJSON, expiration).Err()
}

func (r *dinosaurRepository) DropDinosaurCache(dinosaurID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyDinosaurInfo(dinosaurID)).Err()
}
