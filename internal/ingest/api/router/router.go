package router

import (
	"video_ingest_service/internal/ingest/api/handlers"
	"video_ingest_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes 註冊 ingest 相關的路由, jwtSecret 為空時 upload 不需驗證
// @title Video Ingest Service API
// @version 1.0
// @description API documentation for Video Ingest Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(app *fiber.App, ingestHandler *handlers.IngestHandler, jwtSecret []byte) {
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	app.Get("/video/*", ingestHandler.GetVideo)

	if len(jwtSecret) > 0 {
		app.Post("/upload-video", middlewares.JWTMiddleware(jwtSecret), ingestHandler.UploadVideo)
		return
	}
	app.Post("/upload-video", ingestHandler.UploadVideo)
}
