package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"kriyatec.com/medstore-api/pkg/shared/config"
	"kriyatec.com/medstore-api/pkg/shared/helper"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

func setupMiddlewares(app *fiber.App, cfg config.App) {
	// Provide a custom compression level
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))

	//extend your config for customization
	app.Use(cors.New(cors.Config{
		AllowHeaders:     "OrgId, Origin, Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization,X-Requested-With",
		AllowMethods:     "POST,GET,PUT,OPTIONS,DELETE",
		ExposeHeaders:    "Origin, Content-Disposition, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           10,
		AllowOriginsFunc: AllowOrigins,
	}))

	//ETag middleware for Fiber that lets caches be more efficient and save bandwidth,
	//as a web server does not need to resend a full response if the content has not changed.
	app.Use(etag.New(etag.Config{
		Weak: true,
	}))

	app.Use(requestid.New())

	if cfg.LogRequests {
		//Logger middleware for Fiber that logs HTTP request/response details.
		app.Use(logger.New(logger.Config{
			Output:     logx.Writer(),
			Format:     "${pid} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
			TimeFormat: "02-Jan-2006",
			TimeZone:   "Asia/Kolkata",
		}))
	}

	//Recover middleware for Fiber that recovers from panics anywhere in the stack chain and handles the control to the centralized ErrorHandler.
	app.Use(recover.New())
}

func Create(cfg config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		Prefork:      false,
		ErrorHandler: CustomErrorHandler,
	})
	setupMiddlewares(app, cfg)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to " + cfg.Name)
	})
	//See the API dashboard
	app.Get("/server-dashboard", monitor.New())
	return app
}

func AllowOrigins(origin string) bool {
	return true
}

func Listen(app *fiber.App, cfg config.App) error {
	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(404)
	})
	logx.Info().Str("listen", cfg.ListenURL).Bool("tls", cfg.SSLCertFile != "").Msg("server starting")
	if cfg.SSLCertFile != "" {
		return app.ListenTLS(cfg.ListenURL, cfg.SSLCertFile, cfg.SSLKeyFile)
	}
	return app.Listen(cfg.ListenURL)
}

// Override default error handler
func CustomErrorHandler(ctx *fiber.Ctx, err error) error {
	e := helper.AsError(err)
	if e.Status >= 500 {
		logx.Error().Err(err).Str("path", ctx.Path()).Int("status", e.Status).Msg("request failed")
	}
	return ctx.Status(e.Status).JSON(e)
}
