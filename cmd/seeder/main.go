// cmd/seeder/main.go

package main

import (
	"Dino_Museum/internal/model"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	// 注意：这里的DSN需要和server/main.go使用的保持一致
	if err := godotenv.Load(); err != nil {
		log.Fatalf("❌ .env文件加载失败")
	}
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatalf("❌ 缺少DATABASE_DSN环境变量")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 (可选，但推荐) ---
	fmt.Println("🧹 正在清理旧数据...")
	// 为了确保每次填充都是干净的，我们可以先删除旧表再重建
	// 注意：这将删除所有数据！删表顺序要先删引用别人的表
	db.Migrator().DropTable(
		&model.Notification{},
		&model.CommentVote{},
		&model.Comment{},
		"dinosaur_habitats",
		&model.Dinosaur{},
		&model.Habitat{},
		&model.Region{},
		&model.Era{},
		&model.User{},
	)
	fmt.Println("✅ 旧表删除成功!")

	// 重新迁移，创建新表
	db.AutoMigrate(
		&model.User{},
		&model.Era{},
		&model.Region{},
		&model.Habitat{},
		&model.Dinosaur{},
		&model.Comment{},
		&model.CommentVote{},
		&model.Notification{},
	)
	fmt.Println("✅ 数据库迁移成功!")

	rand.Seed(time.Now().UnixNano())

	// --- 3. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	// 为所有用户设置一个简单的默认密码 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	// 第一个用户是管理员，方便本地调试后台接口
	admin := model.User{
		Username: "admin",
		Password: string(hashedPassword),
		Email:    "admin@dino-museum.local",
		Role:     model.RoleAdmin,
		Active:   true,
	}
	db.Create(&admin)

	userCount := 50
	for i := 0; i < userCount; i++ {
		user := model.User{
			Username: faker.Username(),
			Password: string(hashedPassword),
			Email:    faker.Email(),
			Role:     model.RoleUser,
			Active:   true,
		}
		db.Create(&user)
	}
	totalUsers := userCount + 1
	fmt.Printf("✅ 成功创建 %d 个用户（含1个管理员）!\n", totalUsers)

	// --- 4. 创建基础数据：纪元、地区、栖息地 ---
	// 这些不是随机数据，图鉴的骨架用真实的名字
	fmt.Println("🌍 正在创建纪元/地区/栖息地...")
	eras := []model.Era{
		{Name: "三叠纪", PeriodStart: 252, PeriodEnd: 201, Description: "恐龙登场的纪元"},
		{Name: "侏罗纪", PeriodStart: 201, PeriodEnd: 145, Description: "巨型蜥脚类的黄金时代"},
		{Name: "白垩纪", PeriodStart: 145, PeriodEnd: 66, Description: "恐龙时代的终章"},
	}
	for i := range eras {
		db.Create(&eras[i])
	}
	regions := []model.Region{
		{Name: "戈壁沙漠", Country: "蒙古", Continent: "亚洲"},
		{Name: "莫里逊组", Country: "美国", Continent: "北美洲"},
		{Name: "巴塔哥尼亚", Country: "阿根廷", Continent: "南美洲"},
		{Name: "坦达古鲁", Country: "坦桑尼亚", Continent: "非洲"},
	}
	for i := range regions {
		db.Create(&regions[i])
	}
	habitats := []model.Habitat{
		{Name: "泛滥平原", Environment: "平原"},
		{Name: "针叶林", Environment: "森林"},
		{Name: "滨海沼泽", Environment: "沼泽"},
		{Name: "干旱荒漠", Environment: "荒漠"},
	}
	for i := range habitats {
		db.Create(&habitats[i])
	}
	fmt.Println("✅ 基础数据创建成功!")

	// --- 5. 创建恐龙 ---
	fmt.Println("🦖 正在创建恐龙...")
	diets := []string{"carnivore", "herbivore", "omnivore"}
	kinds := []string{"兽脚类", "蜥脚类", "鸟臀类"}
	dinosaurCount := 80
	for i := 0; i < dinosaurCount; i++ {
		eraID := eras[rand.Intn(len(eras))].ID
		regionID := regions[rand.Intn(len(regions))].ID
		dinosaur := model.Dinosaur{
			Name:        faker.Word() + "龙",
			Description: faker.Paragraph(),
			Kind:        kinds[rand.Intn(len(kinds))],
			Diet:        diets[rand.Intn(len(diets))],
			WeightKg:    float64(rand.Intn(50000)) / 10,
			HeightM:     float64(rand.Intn(150)) / 10,
			LengthM:     float64(rand.Intn(350)) / 10,
			Image:       "https://test.com/dinosaur.jpg",
			EraID:       &eraID,
			RegionID:    &regionID,
			// 从已创建的用户中随机选择一个作为录入者
			CreatorID: uint64(rand.Intn(totalUsers) + 1),
		}
		db.Create(&dinosaur)
		// 随机挂1~2个栖息地
		picked := habitats[rand.Intn(len(habitats))]
		db.Model(&dinosaur).Association("Habitats").Append(&picked)
	}
	fmt.Printf("✅ 成功创建 %d 只恐龙!\n", dinosaurCount)

	// --- 6. 创建评论和回复 ---
	fmt.Println("💬 正在创建评论...")
	commentCount := 300
	commentIDs := make([]uint64, 0, commentCount)
	for i := 0; i < commentCount; i++ {
		comment := model.Comment{
			DinosaurID: uint64(rand.Intn(dinosaurCount) + 1),
			UserID:     uint64(rand.Intn(totalUsers) + 1),
			Content:    faker.Sentence(),
		}
		// 三分之一的评论挂成已有评论的回复
		if len(commentIDs) > 0 && rand.Intn(3) == 0 {
			parentID := commentIDs[rand.Intn(len(commentIDs))]
			var parent model.Comment
			if err := db.First(&parent, parentID).Error; err == nil && parent.ParentID == nil {
				// 只回复一级评论，和页面的两级展示保持一致
				comment.ParentID = &parentID
				comment.DinosaurID = parent.DinosaurID
			}
		}
		if err := db.Create(&comment).Error; err == nil {
			commentIDs = append(commentIDs, comment.ID)
		}
	}
	fmt.Printf("✅ 成功创建 %d 条评论!\n", len(commentIDs))

	// --- 7. 创建随机投票 ---
	fmt.Println("🗳️ 正在创建随机投票...")
	voteCount := 1000
	polarities := []string{model.VotePositive, model.VoteNegative}
	for i := 0; i < voteCount; i++ {
		vote := model.CommentVote{
			CommentID: commentIDs[rand.Intn(len(commentIDs))],
			UserID:    uint64(rand.Intn(totalUsers) + 1),
			Polarity:  polarities[rand.Intn(len(polarities))],
		}
		// 使用GORM的 OnConflict 来避免因为同一个人重复投票而报错
		// 这会尝试插入，如果因为唯一键冲突失败，就什么都不做
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&vote)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机投票!\n", voteCount)

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}
