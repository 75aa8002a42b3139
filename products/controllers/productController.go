package controllers

import (
	"inventory-gateway-backend/api"
	"inventory-gateway-backend/config"
	"inventory-gateway-backend/products/repositories"
	"inventory-gateway-backend/products/services"
	"inventory-gateway-backend/search"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type ProductController struct {
	Client        *api.Client
	ImportService *services.ImportService
	ImportRunRepo repositories.ImportRunRepository
	SearchIndex   *search.IndexService
	AsynqClient   *asynq.Client
}

// backendStatus maps a backend API error onto a response status, falling back
// to 502 for transport failures.
func backendStatus(err error) int {
	if apiErr, ok := err.(*api.APIError); ok {
		return apiErr.StatusCode
	}
	return fiber.StatusBadGateway
}

func (pc *ProductController) CreateProductController(c *fiber.Ctx) error {
	var record api.NewProductRecord
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if record.Barcode == "" {
		record.Barcode = services.GenerateBarcode()
	}

	created, err := pc.Client.CreateProduct(c.Context(), record)
	if err != nil {
		config.Logger.Error("Failed to create product", zap.String("name", record.Name), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to create product",
			"error":   err.Error(),
		})
	}

	if pc.SearchIndex != nil {
		if err := pc.SearchIndex.IndexProduct(*created); err != nil {
			config.Logger.Warn("Failed to index product", zap.String("productId", created.ID), zap.Error(err))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    created,
	})
}

func (pc *ProductController) GetFilteredProductsController(c *fiber.Ctx) error {
	query := api.ProductQuery{
		Name:        c.Query("name"),
		Category:    c.Query("category"),
		Supermarket: c.Query("supermarket"),
		Page:        c.QueryInt("page"),
		PageSize:    c.QueryInt("page_size"),
	}

	productList, err := pc.Client.ListProducts(c.Context(), query)
	if err != nil {
		config.Logger.Error("Failed to list products", zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch products",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Products fetched successfully",
		"data":    productList,
	})
}

func (pc *ProductController) GetProductController(c *fiber.Ctx) error {
	product, err := pc.Client.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to fetch product",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Product fetched successfully",
		"data":    product,
	})
}

func (pc *ProductController) UpdateProductController(c *fiber.Ctx) error {
	var record api.NewProductRecord
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	updated, err := pc.Client.UpdateProduct(c.Context(), c.Params("id"), record)
	if err != nil {
		config.Logger.Error("Failed to update product", zap.String("productId", c.Params("id")), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to update product",
			"error":   err.Error(),
		})
	}

	if pc.SearchIndex != nil {
		if err := pc.SearchIndex.IndexProduct(*updated); err != nil {
			config.Logger.Warn("Failed to reindex product", zap.String("productId", updated.ID), zap.Error(err))
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Product updated successfully",
		"data":    updated,
	})
}

func (pc *ProductController) DeleteProductController(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := pc.Client.DeleteProduct(c.Context(), id); err != nil {
		config.Logger.Error("Failed to delete product", zap.String("productId", id), zap.Error(err))
		return c.Status(backendStatus(err)).JSON(fiber.Map{
			"message": "Failed to delete product",
			"error":   err.Error(),
		})
	}

	if pc.SearchIndex != nil {
		if err := pc.SearchIndex.DeleteProduct(id); err != nil {
			config.Logger.Warn("Failed to remove product from index", zap.String("productId", id), zap.Error(err))
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
