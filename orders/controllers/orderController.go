package controllers

import (
	"inventory-gateway-backend/api"
	"inventory-gateway-backend/config"
	"inventory-gateway-backend/orders/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrderController struct {
	OrderViews *services.OrderViewService
}

func backendStatus(err error) int {
	if apiErr, ok := err.(*api.APIError); ok {
		return apiErr.StatusCode
	}
	return fiber.StatusBadGateway
}

func (oc *OrderController) GetFilteredOrdersController(c *fiber.Ctx) error {
	query := api.OrderQuery{
		Channel:     api.OrderChannel(c.Query("channel")),
		Status:      c.Query("status"),
		Supermarket: c.Query("supermarket"),
	}

	switch query.Channel {
	case "", api.ChannelInStore, api.ChannelOnline, api.ChannelWholesale:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown order channel",
			"channel": string(query.Channel),
		})
	}

	orderList, cached, err := oc.OrderViews.ListOrders(c.Context(), query)
	if err != nil {
		config.Logger.Error("Failed to list orders", zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch orders",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Orders fetched successfully",
		"cached":  cached,
		"data":    orderList,
	})
}

func (oc *OrderController) GetOrderController(c *fiber.Ctx) error {
	order, err := oc.OrderViews.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Order fetched successfully",
		"data":    order,
	})
}
