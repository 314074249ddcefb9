package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/database"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/mysql"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/service"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/storage"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	ctx := context.Background()

	// 连接数据库
	db, err := database.Open(ctx, config.AppConfig.MySQLDSN())
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()
	util.Logger.Info("数据库连接成功")

	if config.AppConfig.RunMigrations {
		if err := database.RunMigrations(db); err != nil {
			util.Logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		util.Logger.Info("数据库迁移完成")
	}

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		util.RegisterValidators(v)
	}

	fileStorage, err := storage.NewStorage(ctx, config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化存储失败", zap.Error(err), zap.String("driver", config.AppConfig.StorageDriver))
	}

	// 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	// 初始化存储库
	userRepo := mysql.NewUserRepository(db)
	petRepo := mysql.NewPetRepository(db)
	communityRepo := mysql.NewCommunityRepository(db)
	adoptionRepo := mysql.NewAdoptionRepository(db)
	chatRepo := mysql.NewChatRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	clinicRepo := mysql.NewClinicRepository(db)
	verificationRepo := mysql.NewVerificationRepository(db)

	// 初始化服务
	emailService := service.NewEmailService(userRepo, recorder)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, emailService, recorder)
	services := &appServices{
		user:         service.NewUserService(userRepo, emailService),
		feed:         service.NewFeedService(communityRepo, recorder),
		community:    service.NewCommunityService(communityRepo, userRepo, petRepo, notificationService, recorder),
		adoption:     service.NewAdoptionService(adoptionRepo, userRepo, petRepo, notificationService, recorder),
		pet:          service.NewPetService(petRepo, userRepo),
		chat:         service.NewChatService(chatRepo, userRepo, notificationService, recorder),
		notification: notificationService,
		clinic:       service.NewClinicService(clinicRepo, userRepo),
		verification: service.NewVerificationService(verificationRepo, userRepo, petRepo, notificationService, recorder),
		admin:        service.NewAdminService(userRepo, petRepo, communityRepo, adoptionRepo, verificationRepo),
	}

	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(config.AppConfig.RateLimitPerMinute, config.AppConfig.RateLimitBurst),
		recorder,
	)
	defer rateLimiter.Stop()

	r := setupRouter(services, fileStorage, recorder, registry, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info("服务器启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.Logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Error("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已退出")
}
