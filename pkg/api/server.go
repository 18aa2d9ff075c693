package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/transitdraft/transitdraft/pkg/api/routes"
)

func SetupServer(listen string) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.DraftsRouter(group.Group("/drafts"))

	return webApp.Listen(listen)
}
