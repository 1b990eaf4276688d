package main

import (
	"context"

	"github.com/tritonir/nondan-backend/internal/authz"
	"github.com/tritonir/nondan-backend/internal/config"
	"github.com/tritonir/nondan-backend/internal/handler"
	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"
	"github.com/tritonir/nondan-backend/internal/repository/mysql"
	"github.com/tritonir/nondan-backend/internal/repository/redis"
	"github.com/tritonir/nondan-backend/internal/router"
	"github.com/tritonir/nondan-backend/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	pkg.AccessSecret = []byte(cfg.JWTAccessSecret)
	pkg.RefreshSecret = []byte(cfg.JWTRefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		logrus.WithError(err).Fatal("connect mysql")
	}

	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logrus.WithError(err).Fatal("connect redis")
	}

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Club{},
		&model.ClubMembership{},
		&model.ClubFollower{},
		&model.Event{},
		&model.EventAttendee{},
		&model.ActivityOutbox{},
	); err != nil {
		logrus.WithError(err).Fatal("migrate schema")
	}

	// 权限表是进程级常量，只在这里构造一次并注入
	engine := authz.NewEngine(authz.DefaultTable())

	mailer := pkg.NewSMTPMailer(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	userSvc := service.NewUserService(mysql.DB)
	clubSvc := service.NewClubService(mysql.DB, engine, mailer)
	eventSvc := service.NewEventService(mysql.DB, engine)

	// outbox 投递：配了 broker 走 kafka，否则落日志
	sender := service.Sender(service.LogSender)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			logrus.WithError(err).Fatal("kafka producer")
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)
	go service.NewClubStatsReconciler(mysql.DB).Run(ctx)

	r := router.InitRouter(router.Handlers{
		User:  handler.NewUserHandler(userSvc),
		Club:  handler.NewClubHandler(clubSvc),
		Event: handler.NewEventHandler(eventSvc),
	}, cfg.AllowedOrigin)

	logrus.WithField("addr", cfg.Addr).Info("listening")
	if err := r.Run(cfg.Addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
