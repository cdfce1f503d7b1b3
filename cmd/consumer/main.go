package main

import (
	"Dino_Museum/internal/model"
	"Dino_Museum/internal/repository"
	"Dino_Museum/internal/service"
	"Dino_Museum/pkg/logger"
	"Dino_Museum/pkg/rabbitmq"
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 消费者进程：连接mysql和rabbitMQ，把回复通知消息持久化成notifications表的行
func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf(".env文件加载失败")
	}
	logger.InitLogger()

	// 连接数据库
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		logger.Log.Fatal("缺少DATABASE_DSN环境变量")
	}
	db, err := gorm.Open(gorm_mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	notificationRepo := repository.NewNotificationRepository(db)
	// 开始消费消息
	consumeReplyNotifications(rabbitMQConn, notificationRepo)
}

// 回复通知消费者：1、通过mq的TCP连接创建channel 2、通过ch注册消费者 3、利用无缓冲通道持续消费消息
// 4、反序列化后写notifications表，(comment_id, recipient_id)上有唯一索引，重复投递靠1062错误兜底
func consumeReplyNotifications(conn *amqp.Connection, repo repository.NotificationRepository) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 队列声明是幂等的，消费者先起也没关系
	if _, err := ch.QueueDeclare(service.QueueReplyNotify, true, false, false, false, nil); err != nil {
		logger.Log.Fatalf("无法声明队列: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueueReplyNotify, // queue
		"",                       // consumer
		false,                    // auto-ack: 手动确认，处理失败的消息才能重试
		false,                    // exclusive
		false,                    // no-local
		false,                    // no-wait
		nil,                      // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册回复通知消费者: %v", err)
	}
	// 创建一个没有任何缓冲的bool类型通道
	forever := make(chan bool)

	go func() {
		// msgs不是切片，而是通道channel，如果通道为空不会结束循环，而会“阻塞”
		for d := range msgs {
			logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)
			logCtx.Info("收到一条回复通知消息")

			var msg service.ReplyMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logCtx.WithError(err).Error("消息JSON解析失败")
				// 对于无法解析的“坏消息”，应该通知mq处理失败，并直接删除
				d.Nack(false, false)
				continue // 处理下一条
			}

			notification := &model.Notification{
				RecipientID: msg.RecipientID,
				ActorID:     msg.ActorID,
				CommentID:   msg.CommentID,
				DinosaurID:  msg.DinosaurID,
			}
			// 根据数据库操作的结果，来决定如何“确认”消息
			if opErr := repo.Create(notification); opErr != nil {
				var mysqlErr *mysql.MySQLError
				// 用errors.As来检查错误的“根”是不是一个MySQLError
				if errors.As(opErr, &mysqlErr) && mysqlErr.Number == 1062 {
					// 错误号 1062 就是 "Duplicate entry"
					logCtx.WithError(opErr).Warn("处理消息时出现重复键错误，可能是一次重复消费，消息将被确认为成功。")
					// 这不是一个需要重试的错误，直接Ack掉
					d.Ack(false)
				} else {
					// 其他类型错误，才要求重试
					logCtx.WithError(opErr).Error("处理消息失败，将进行重试")
					d.Nack(false, true)
				}
			} else {
				d.Ack(false)
			}
		}
	}()
	logger.Log.Info(" [*] 等待回复通知消息中. 按 CTRL+C 退出")
	// 尝试从forever通道里接收一个值，但没有发送者，这会阻止main函数退出
	<-forever
}
