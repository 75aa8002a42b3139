package controllers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"inventory-gateway-backend/config"
	"inventory-gateway-backend/db/models"
	"inventory-gateway-backend/products/services"
	"inventory-gateway-backend/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadDir = "./uploads"

// BulkImportProductsController accepts a spreadsheet upload and runs the
// import pipeline against the configured store. With async=true the file is
// staged on disk and the run is queued instead of executed inline.
func (pc *ProductController) BulkImportProductsController(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing 'file' field in FormData",
			"error":   err.Error(),
		})
	}

	storeID := c.FormValue("store_id")
	if storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing 'store_id' field in FormData",
		})
	}

	initiatedBy := c.FormValue("initiated_by")

	opts := services.DefaultImportOptions()
	if c.FormValue("create_missing_categories") == "false" {
		opts.CreateMissingCategories = false
	}
	if c.FormValue("create_missing_suppliers") == "false" {
		opts.CreateMissingSuppliers = false
	}

	fileType := services.FileType(c.FormValue("file_type"))
	if fileType == "" {
		fileType = services.FileTypeFromName(fileHeader.Filename)
	}

	upload, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to open uploaded file",
			"error":   err.Error(),
		})
	}
	defer upload.Close()

	fileData, err := io.ReadAll(upload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read uploaded file",
			"error":   err.Error(),
		})
	}

	run := &models.ImportRun{
		ID:          uuid.New(),
		FileName:    fileHeader.Filename,
		Status:      models.ImportRunQueued,
		InitiatedBy: initiatedBy,
	}
	if parsed, parseErr := uuid.Parse(storeID); parseErr == nil {
		run.StoreID = parsed
	}
	if err := pc.ImportRunRepo.CreateRun(run); err != nil {
		config.Logger.Error("Failed to create import run record", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create import run",
			"error":   err.Error(),
		})
	}

	if c.FormValue("async") == "true" {
		return pc.enqueueImport(c, run, fileHeader.Filename, fileData, fileType, storeID, initiatedBy, opts)
	}

	report, err := pc.ImportService.Execute(c.Context(), services.ImportRequest{
		RunID:       run.ID,
		FileName:    fileHeader.Filename,
		FileData:    fileData,
		FileType:    fileType,
		StoreID:     storeID,
		InitiatedBy: initiatedBy,
		Options:     opts,
	})
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Import failed",
			"run_id":  run.ID,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":        "Import completed",
		"run_id":         run.ID,
		"total":          report.Total,
		"successful":     report.Successful,
		"failed":         report.Failed,
		"new_categories": report.NewCategories,
		"new_suppliers":  report.NewSuppliers,
		"results":        report.Results,
	})
}

func (pc *ProductController) enqueueImport(
	c *fiber.Ctx,
	run *models.ImportRun,
	fileName string,
	fileData []byte,
	fileType services.FileType,
	storeID string,
	initiatedBy string,
	opts services.ImportOptions,
) error {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to stage uploaded file",
			"error":   err.Error(),
		})
	}

	stagedPath := filepath.Join(uploadDir, fmt.Sprintf("%s_%s", run.ID, filepath.Base(fileName)))
	if err := os.WriteFile(stagedPath, fileData, 0644); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to stage uploaded file",
			"error":   err.Error(),
		})
	}

	task, err := tasks.NewProductImportTask(tasks.ProductImportPayload{
		RunID:       run.ID,
		FileName:    fileName,
		FilePath:    stagedPath,
		FileType:    fileType,
		StoreID:     storeID,
		InitiatedBy: initiatedBy,
		Options:     opts,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to build import task",
			"error":   err.Error(),
		})
	}

	info, err := pc.AsynqClient.Enqueue(task)
	if err != nil {
		config.Logger.Error("Failed to enqueue import task", zap.String("runId", run.ID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to enqueue import",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Import queued",
		zap.String("runId", run.ID.String()),
		zap.String("taskId", info.ID),
	)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Import queued",
		"run_id":  run.ID,
		"task_id": info.ID,
	})
}
