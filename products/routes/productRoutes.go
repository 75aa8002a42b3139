package routes

import (
	"inventory-gateway-backend/api"
	"inventory-gateway-backend/products/controllers"
	"inventory-gateway-backend/products/repositories"
	"inventory-gateway-backend/products/services"
	"inventory-gateway-backend/search"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

func ProductRouterInit(
	app *fiber.App,
	client *api.Client,
	importService *services.ImportService,
	importRunRepo repositories.ImportRunRepository,
	searchIndex *search.IndexService,
	asynqClient *asynq.Client,
) {
	productController := &controllers.ProductController{
		Client:        client,
		ImportService: importService,
		ImportRunRepo: importRunRepo,
		SearchIndex:   searchIndex,
		AsynqClient:   asynqClient,
	}

	productRoutes := app.Group("/products")
	productRoutes.Post("/", productController.CreateProductController)
	productRoutes.Get("/", productController.GetFilteredProductsController)
	productRoutes.Post("/bulk-import", productController.BulkImportProductsController)
	productRoutes.Get("/imports", productController.GetFilteredImportRunsController)
	productRoutes.Get("/imports/:id", productController.GetImportRunController)
	productRoutes.Get("/:id", productController.GetProductController)
	productRoutes.Put("/:id", productController.UpdateProductController)
	productRoutes.Delete("/:id", productController.DeleteProductController)
}
