package routes

import (
	"inventory-gateway-backend/search"
	"inventory-gateway-backend/search/controllers"

	"github.com/gofiber/fiber/v2"
)

func SearchRouterInit(app *fiber.App, index *search.IndexService) {
	searchController := &controllers.SearchController{Index: index}

	searchRoutes := app.Group("/search")
	searchRoutes.Get("/products", searchController.SearchProductsController)
}
