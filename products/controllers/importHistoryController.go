package controllers

import (
	"inventory-gateway-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (pc *ProductController) GetFilteredImportRunsController(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	runs, err := pc.ImportRunRepo.ListRuns(limit, offset)
	if err != nil {
		config.Logger.Error("Failed to list import runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch import runs",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Import runs fetched successfully",
		"data":    runs,
	})
}

func (pc *ProductController) GetImportRunController(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid import run id",
			"error":   err.Error(),
		})
	}

	run, err := pc.ImportRunRepo.GetRunByID(runID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Import run not found",
			"error":   err.Error(),
		})
	}

	rowErrors, err := pc.ImportRunRepo.GetRowErrors(runID)
	if err != nil {
		config.Logger.Error("Failed to fetch import row errors", zap.String("runId", runID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch import run errors",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Import run fetched successfully",
		"data": fiber.Map{
			"run":    run,
			"errors": rowErrors,
		},
	})
}
