package dto

import (
	"Dino_Museum/internal/model"
	"time"
)

type EraInfo struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	PeriodStart int    `json:"period_start"`
	PeriodEnd   int    `json:"period_end"`
}

type RegionInfo struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	Continent string `json:"continent"`
}

type HabitatInfo struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Environment string `json:"environment"`
}

type DinosaurResponse struct {
	ID          uint64    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	Diet        string    `json:"diet"`
	WeightKg    float64   `json:"weight_kg"`
	HeightM     float64   `json:"height_m"`
	LengthM     float64   `json:"length_m"`
	Image       string    `json:"image"`

	Era      *EraInfo      `json:"era,omitempty"`
	Region   *RegionInfo   `json:"region,omitempty"`
	Habitats []HabitatInfo `json:"habitats"`
	Creator  UserInfo      `json:"creator"`

	// 详情页的讨论区角标，列表页不查这个数
	CommentCount int64 `json:"comment_count,omitempty"`
}

// ToDinosaurResponse 是一个转换函数，把DB模型转换为API响应模型，并且正确利用preload返回的数据，增强返回数据的健壮性
func ToDinosaurResponse(dinosaur *model.Dinosaur) DinosaurResponse {
	resp := DinosaurResponse{
		ID:          dinosaur.ID,
		CreatedAt:   dinosaur.CreatedAt,
		Name:        dinosaur.Name,
		Description: dinosaur.Description,
		Kind:        dinosaur.Kind,
		Diet:        dinosaur.Diet,
		WeightKg:    dinosaur.WeightKg,
		HeightM:     dinosaur.HeightM,
		LengthM:     dinosaur.LengthM,
		Image:       dinosaur.Image,
		Habitats:    []HabitatInfo{},
	}
	// 检查Creator是否被成功preload
	if dinosaur.Creator.ID != 0 {
		resp.Creator.ID = dinosaur.Creator.ID
		resp.Creator.Username = dinosaur.Creator.Username
	} else {
		// 如果没有preload，就返回dinosaur结构体本身的
		resp.Creator.ID = dinosaur.CreatorID
	}
	if dinosaur.Era != nil && dinosaur.Era.ID != 0 {
		resp.Era = &EraInfo{
			ID:          dinosaur.Era.ID,
			Name:        dinosaur.Era.Name,
			PeriodStart: dinosaur.Era.PeriodStart,
			PeriodEnd:   dinosaur.Era.PeriodEnd,
		}
	}
	if dinosaur.Region != nil && dinosaur.Region.ID != 0 {
		resp.Region = &RegionInfo{
			ID:        dinosaur.Region.ID,
			Name:      dinosaur.Region.Name,
			Country:   dinosaur.Region.Country,
			Continent: dinosaur.Region.Continent,
		}
	}
	for _, h := range dinosaur.Habitats {
		resp.Habitats = append(resp.Habitats, HabitatInfo{
			ID:          h.ID,
			Name:        h.Name,
			Environment: h.Environment,
		})
	}
	return resp
}

func ToDinosaurResponses(dinosaurs []model.Dinosaur) []DinosaurResponse {
	resps := make([]DinosaurResponse, 0, len(dinosaurs))
	for i := range dinosaurs {
		resps = append(resps, ToDinosaurResponse(&dinosaurs[i]))
	}
	return resps
}
