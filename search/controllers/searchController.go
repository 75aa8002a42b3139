package controllers

import (
	"inventory-gateway-backend/config"
	"inventory-gateway-backend/search"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SearchController struct {
	Index *search.IndexService
}

func (sc *SearchController) SearchProductsController(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing 'q' query parameter",
		})
	}

	size := c.QueryInt("size", 20)
	if size < 1 || size > 100 {
		size = 20
	}

	results, err := sc.Index.SearchProducts(query, size)
	if err != nil {
		config.Logger.Error("Product search failed", zap.String("query", query), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Search failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Search completed",
		"count":   len(results),
		"data":    results,
	})
}
