package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"party-find-backend/config"
	apiv1 "party-find-backend/controllers/v1"
	"party-find-backend/controllers/v1/dict"
	"party-find-backend/fiberlog"
	"party-find-backend/initializers"
	"party-find-backend/lib/ws"
	"party-find-backend/middleware"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.BodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(middleware.WithBodyLimit(int64(config.Conf.App.BodyLimit)))

	if *config.Conf.Swagger.Enabled {
		if _, err := os.Stat(config.Conf.Swagger.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				Path:     "/swagger",
				FilePath: config.Conf.Swagger.FilePath,
			}))
		} else {
			log.WithError(err).Warn("swagger file not found, swagger ui disabled")
		}
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))
	apiv1.InitAuthApiRouters(apiV1)

	//dict
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired(), middleware.AccessTokenRequired())
	dict.InitContentDictApiRouters(dicts)
	dict.InitRegionDictApiRouters(dicts)
	dict.InitJobDictApiRouters(dicts)

	apiv1.InitCharacterApiRouters(apiV1)
	apiv1.InitPartyFindPostApiRouters(apiV1)

	//notifications
	wsApp := fiber.New()
	app.Mount("/ws", wsApp)
	wsApp.Use(middleware.AuthorizationRequired(), middleware.AccessTokenRequired())
	ws.InitWs(wsApp)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("error when trying to shut down gracefully")
		}
		log.Info("graceful shutdown finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
