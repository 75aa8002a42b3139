package routes

import (
	"inventory-gateway-backend/api"
	"inventory-gateway-backend/deals/controllers"

	"github.com/gofiber/fiber/v2"
)

func DealRouterInit(app *fiber.App, client *api.Client) {
	dealController := &controllers.DealController{Client: client}

	dealRoutes := app.Group("/deals")
	dealRoutes.Get("/", dealController.GetFilteredDealsController)
	dealRoutes.Post("/", dealController.CreateDealController)
	dealRoutes.Put("/:id", dealController.UpdateDealController)
	dealRoutes.Delete("/:id", dealController.DeactivateDealController)
}
