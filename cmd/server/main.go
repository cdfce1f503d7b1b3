package main

import (
	"Dino_Museum/internal/data"
	"Dino_Museum/internal/handler"
	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
	"Dino_Museum/internal/router"
	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"
	"Dino_Museum/pkg/rabbitmq"
	"Dino_Museum/pkg/redis"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 加载.env文件
	err := godotenv.Load()
	if err != nil {
		log.Fatalf(".env文件加载失败")
	}
	// 初始化logger
	logger.InitLogger()

	// 初始化Redis
	redisClient, err := redis.InitRedis()
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	logger.Log.Info("RabbitMQ连接成功")

	// 数据源名称，用户名:密码@网络协议(地址:端口号)/数据库名?charset=字符集&parseTime=是否解析时间&loc=时区
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		logger.Log.Fatal("缺少DATABASE_DSN环境变量")
	}
	// 这个mysql包是gorm的第三方承包商，mysql.Open()后还是只能执行原始SQL语句，gorm.Open()后可以执行gorm的简化语句，但要注意性能
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	// db.AutoMigrate(),没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
	// 评论和投票的级联删除靠这里的外键约束，顺序要先有被引用的表
	err = db.AutoMigrate(
		&model.User{},
		&model.Era{},
		&model.Region{},
		&model.Habitat{},
		&model.Dinosaur{},
		&model.Comment{},
		&model.CommentVote{},
		&model.Notification{},
	)
	if err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	userRepo := repository.NewUserRepository(db)
	dinosaurRepo := repository.NewDinosaurRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	eraRepo := repository.NewEraRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	habitatRepo := repository.NewHabitatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	uow := data.NewUnitOfWork(db, dinosaurRepo, commentRepo)

	userService := service.NewUserService(userRepo)
	dinosaurService := service.NewDinosaurService(dinosaurRepo, habitatRepo, uow)
	taxonomyService := service.NewTaxonomyService(eraRepo, regionRepo, habitatRepo)
	commentService := service.NewCommentService(commentRepo, voteRepo, dinosaurRepo, rabbitMQConn)
	notificationService := service.NewNotificationService(notificationRepo)

	userHandler := handler.NewUserHandler(userService)
	dinosaurHandler := handler.NewDinosaurHandler(dinosaurService, commentService)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService)
	commentHandler := handler.NewCommentHandler(commentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	r := router.SetupRouter(userRepo, userHandler, dinosaurHandler, taxonomyHandler, commentHandler, notificationHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Log.Printf("服务器将在: %s端口启动", port)

	if err := r.Run(":" + port); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
