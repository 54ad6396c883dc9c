package server

import (
	"errors"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/controllers"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/middlewares"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/rs/zerolog/log"
)

type HTTPServerDependencies struct {
	AllowOrigins         []string
	ClassifierController *controllers.ClassifierController
}

func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName:      "spam-detector",
		ErrorHandler: errorHandler,
	})

	router.Use(middlewares.RequestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: deps.AllowOrigins,
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions},
	}))
	router.Use(logger.New())

	router.Get("/health", deps.ClassifierController.Health)
	router.Get("/profiles", deps.ClassifierController.Profiles)
	router.Post("/predict", deps.ClassifierController.Predict)
	router.Post("/batch", deps.ClassifierController.Batch)
	router.Post("/file-predict", deps.ClassifierController.FilePredict)

	return router
}

// errorHandler shapes every error response as {detail, request_id}.
// Anything that is not an explicit fiber.Error is logged with the
// request ID and surfaced as a generic 500 without internal detail.
func errorHandler(c fiber.Ctx, err error) error {
	rid := middlewares.RequestID(c)

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"detail":     fiberErr.Message,
			"request_id": rid,
		})
	}

	log.Error().Err(err).Str("request_id", rid).Str("path", c.Path()).Msg("Unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"detail":     "Internal Server Error",
		"request_id": rid,
	})
}
