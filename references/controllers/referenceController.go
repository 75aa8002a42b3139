package controllers

import (
	"strings"

	"inventory-gateway-backend/api"
	"inventory-gateway-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReferenceController struct {
	Client *api.Client
}

type createReferenceRequest struct {
	Name string `json:"name"`
}

func backendStatus(err error) int {
	if apiErr, ok := err.(*api.APIError); ok {
		return apiErr.StatusCode
	}
	return fiber.StatusBadGateway
}

func (rc *ReferenceController) GetCategoriesController(c *fiber.Ctx) error {
	categories, err := rc.Client.ListCategories(c.Context())
	if err != nil {
		config.Logger.Error("Failed to list categories", zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch categories",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Categories fetched successfully",
		"data":    categories,
	})
}

func (rc *ReferenceController) CreateCategoryController(c *fiber.Ctx) error {
	var req createReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Category name is required",
		})
	}

	created, err := rc.Client.CreateCategory(c.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		config.Logger.Error("Failed to create category", zap.String("name", req.Name), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to create category",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Category created successfully",
		"data":    created,
	})
}

func (rc *ReferenceController) GetSuppliersController(c *fiber.Ctx) error {
	suppliers, err := rc.Client.ListSuppliers(c.Context())
	if err != nil {
		config.Logger.Error("Failed to list suppliers", zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch suppliers",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Suppliers fetched successfully",
		"data":    suppliers,
	})
}

func (rc *ReferenceController) CreateSupplierController(c *fiber.Ctx) error {
	var req createReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Supplier name is required",
		})
	}

	created, err := rc.Client.CreateSupplier(c.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		config.Logger.Error("Failed to create supplier", zap.String("name", req.Name), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to create supplier",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Supplier created successfully",
		"data":    created,
	})
}

func (rc *ReferenceController) GetStoresController(c *fiber.Ctx) error {
	name := c.Query("name")

	var (
		stores []api.Store
		err    error
	)
	if name != "" {
		stores, err = rc.Client.SearchStores(c.Context(), name)
	} else {
		stores, err = rc.Client.ListStores(c.Context())
	}
	if err != nil {
		config.Logger.Error("Failed to list stores", zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch stores",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Stores fetched successfully",
		"data":    stores,
	})
}
