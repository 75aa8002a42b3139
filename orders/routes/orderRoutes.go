package routes

import (
	"inventory-gateway-backend/orders/controllers"
	"inventory-gateway-backend/orders/services"

	"github.com/gofiber/fiber/v2"
)

func OrderRouterInit(app *fiber.App, orderViews *services.OrderViewService) {
	orderController := &controllers.OrderController{OrderViews: orderViews}

	orderRoutes := app.Group("/orders")
	orderRoutes.Get("/", orderController.GetFilteredOrdersController)
	orderRoutes.Get("/:id", orderController.GetOrderController)
}
