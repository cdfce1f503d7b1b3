package router

import (
	"Dino_Museum/internal/handler"
	"Dino_Museum/internal/middleware"
	"Dino_Museum/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	userRepo repository.UserRepository,
	userHandler handler.UserHandler,
	dinosaurHandler handler.DinosaurHandler,
	taxonomyHandler handler.TaxonomyHandler,
	commentHandler handler.CommentHandler,
	notificationHandler handler.NotificationHandler,
) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		// 图鉴和基础数据都是公开可读的
		apiV1.GET("/dinosaurs", dinosaurHandler.ListDinosaurs)
		apiV1.GET("/dinosaurs/:dinosaur_id", dinosaurHandler.GetDinosaurByID)
		apiV1.GET("/eras", taxonomyHandler.ListEras)
		apiV1.GET("/regions", taxonomyHandler.ListRegions)
		apiV1.GET("/habitats", taxonomyHandler.ListHabitats)

		// 评论树匿名也能看，带token则能看到自己投过的票
		apiV1.GET("/dinosaurs/:dinosaur_id/comments", middleware.OptionalAuth(userRepo), commentHandler.GetComments)

		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", userHandler.Register)
			userGroup.POST("/login", userHandler.Login)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware(userRepo))
		{
			authorized.GET("/profile", userHandler.GetProfile)

			authorized.POST("/dinosaurs/:dinosaur_id/comments", commentHandler.CreateComment)
			authorized.PUT("/comments/:comment_id", commentHandler.EditComment)
			authorized.DELETE("/comments/:comment_id", commentHandler.DeleteComment)

			authorized.POST("/comments/:comment_id/vote", commentHandler.VoteComment)
			authorized.DELETE("/comments/:comment_id/vote", commentHandler.UnvoteComment)

			authorized.GET("/notifications", notificationHandler.ListNotifications)
			authorized.GET("/notifications/unread", notificationHandler.CountUnread)
			authorized.PUT("/notifications/:notification_id/read", notificationHandler.MarkRead)
			authorized.PUT("/notifications/read_all", notificationHandler.MarkAllRead)
		}

		// 图鉴和基础数据的写操作只留给管理员
		admin := apiV1.Group("/")
		admin.Use(middleware.AuthMiddleware(userRepo), middleware.AdminRequired())
		{
			admin.POST("/dinosaurs", dinosaurHandler.CreateDinosaur)
			admin.PUT("/dinosaurs/:dinosaur_id", dinosaurHandler.UpdateDinosaur)
			admin.DELETE("/dinosaurs/:dinosaur_id", dinosaurHandler.DeleteDinosaur)

			admin.POST("/eras", taxonomyHandler.CreateEra)
			admin.PUT("/eras/:era_id", taxonomyHandler.UpdateEra)
			admin.DELETE("/eras/:era_id", taxonomyHandler.DeleteEra)

			admin.POST("/regions", taxonomyHandler.CreateRegion)
			admin.PUT("/regions/:region_id", taxonomyHandler.UpdateRegion)
			admin.DELETE("/regions/:region_id", taxonomyHandler.DeleteRegion)

			admin.POST("/habitats", taxonomyHandler.CreateHabitat)
			admin.PUT("/habitats/:habitat_id", taxonomyHandler.UpdateHabitat)
			admin.DELETE("/habitats/:habitat_id", taxonomyHandler.DeleteHabitat)

			// 后台用户管理：封禁立刻生效，因为鉴权中间件每个请求都回表查Active
			admin.GET("/users", userHandler.ListUsers)
			admin.PUT("/users/:user_id/active", userHandler.SetUserActive)
			admin.PUT("/users/:user_id/role", userHandler.SetUserRole)
		}
	}

	return r
}
