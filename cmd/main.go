package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/api"
	"github.com/Ruturaj-007/video-platform-api/internal/controller"
	"github.com/Ruturaj-007/video-platform-api/internal/migrations"
	"github.com/Ruturaj-007/video-platform-api/internal/service"
	"github.com/Ruturaj-007/video-platform-api/internal/storage/postgres"
	"github.com/Ruturaj-007/video-platform-api/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	uploader, err := service.NewS3Uploader(ctx, util.NewS3Config(), logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	tokenConfig := util.NewTokenConfig()
	userRepository := postgres.NewUserRepository(db)

	tokenService := service.NewTokenService(tokenConfig)
	authService := service.NewAuthService(userRepository, tokenService, uploader, logger)

	ctrl := controller.NewController(
		logger,
		authService,
		tokenConfig,
		util.NewCookieConfig(),
		util.NewUploadConfig(),
	)

	cleanupFuncs := []func(){dbCleanup}

	apiServer := api.NewAPI(ctrl, authService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
