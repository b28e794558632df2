package main

import (
	"time"

	"hrms-lite/internal/app"
	"hrms-lite/internal/bootstrap"
	"hrms-lite/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg, err := app.ConfigFromEnv()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	r := gin.Default()

	// build dependency + routes
	console, err := app.BuildApp(r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer console.Close()

	auditLogger := bootstrap.MultiAuditLogger{
		bootstrap.NewStdoutAuditLogger(logger),
		bootstrap.NewEventAuditLogger(console.Publisher),
	}
	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: cfg.APITimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		auditLogger,
	)
}
