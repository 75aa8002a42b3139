package routes

import (
	"inventory-gateway-backend/api"
	"inventory-gateway-backend/references/controllers"

	"github.com/gofiber/fiber/v2"
)

func ReferenceRouterInit(app *fiber.App, client *api.Client) {
	referenceController := &controllers.ReferenceController{Client: client}

	categoryRoutes := app.Group("/categories")
	categoryRoutes.Get("/", referenceController.GetCategoriesController)
	categoryRoutes.Post("/", referenceController.CreateCategoryController)

	supplierRoutes := app.Group("/suppliers")
	supplierRoutes.Get("/", referenceController.GetSuppliersController)
	supplierRoutes.Post("/", referenceController.CreateSupplierController)

	storeRoutes := app.Group("/supermarkets")
	storeRoutes.Get("/", referenceController.GetStoresController)
}
