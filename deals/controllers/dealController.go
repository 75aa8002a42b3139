package controllers

import (
	"inventory-gateway-backend/api"
	"inventory-gateway-backend/config"
	"inventory-gateway-backend/products/services"
	"inventory-gateway-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DealController struct {
	Client *api.Client
}

func backendStatus(err error) int {
	if apiErr, ok := err.(*api.APIError); ok {
		return apiErr.StatusCode
	}
	return fiber.StatusBadGateway
}

// validateDeal checks the markdown against the product's cost price so a
// clearance deal never sells below cost, and normalizes the date fields.
func (dc *DealController) validateDeal(c *fiber.Ctx, deal *api.NewClearanceDeal) (int, string) {
	if deal.ProductID == "" {
		return fiber.StatusBadRequest, "Deal product_id is required"
	}
	if deal.DealPrice.IsZero() || deal.DealPrice.IsNegative() {
		return fiber.StatusBadRequest, "Deal price must be greater than zero"
	}

	if deal.StartsOn != "" {
		normalized := services.NormalizeExpiryDate(deal.StartsOn)
		if normalized == "" {
			return fiber.StatusBadRequest, "Unrecognized starts_on date"
		}
		deal.StartsOn = normalized
	}
	if deal.EndsOn != "" {
		normalized := services.NormalizeExpiryDate(deal.EndsOn)
		if normalized == "" {
			return fiber.StatusBadRequest, "Unrecognized ends_on date"
		}
		deal.EndsOn = normalized

		// Normalized dates compare lexically.
		if deal.EndsOn < utils.Today().Format("2006-01-02") {
			return fiber.StatusUnprocessableEntity, "Deal end date is in the past"
		}
	}

	product, err := dc.Client.GetProduct(c.Context(), deal.ProductID)
	if err != nil {
		return backendStatus(err), "Failed to fetch product for deal validation"
	}
	if deal.DealPrice.LessThan(product.CostPrice) {
		return fiber.StatusUnprocessableEntity, "Deal price is below the product's cost price"
	}

	return 0, ""
}

func (dc *DealController) GetFilteredDealsController(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"

	dealList, err := dc.Client.ListDeals(c.Context(), activeOnly)
	if err != nil {
		config.Logger.Error("Failed to list deals", zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch deals",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Deals fetched successfully",
		"data":    dealList,
	})
}

func (dc *DealController) CreateDealController(c *fiber.Ctx) error {
	var deal api.NewClearanceDeal
	if err := c.BodyParser(&deal); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if status, reason := dc.validateDeal(c, &deal); status != 0 {
		return c.Status(status).JSON(fiber.Map{"message": reason})
	}

	created, err := dc.Client.CreateDeal(c.Context(), deal)
	if err != nil {
		config.Logger.Error("Failed to create deal", zap.String("productId", deal.ProductID), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to create deal",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Deal created successfully",
		"data":    created,
	})
}

func (dc *DealController) UpdateDealController(c *fiber.Ctx) error {
	var deal api.NewClearanceDeal
	if err := c.BodyParser(&deal); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if status, reason := dc.validateDeal(c, &deal); status != 0 {
		return c.Status(status).JSON(fiber.Map{"message": reason})
	}

	updated, err := dc.Client.UpdateDeal(c.Context(), c.Params("id"), deal)
	if err != nil {
		config.Logger.Error("Failed to update deal", zap.String("dealId", c.Params("id")), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to update deal",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Deal updated successfully",
		"data":    updated,
	})
}

func (dc *DealController) DeactivateDealController(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := dc.Client.DeactivateDeal(c.Context(), id); err != nil {
		config.Logger.Error("Failed to deactivate deal", zap.String("dealId", id), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to deactivate deal",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Deal deactivated successfully",
	})
}
