package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"inventory-gateway-backend/products/services"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeProductImport = "import:products"

// ProductImportPayload is the queued form of an import request. The uploaded
// file is staged on disk so the payload stays small enough for Redis.
type ProductImportPayload struct {
	RunID       uuid.UUID              `json:"run_id"`
	FileName    string                 `json:"file_name"`
	FilePath    string                 `json:"file_path"`
	FileType    services.FileType      `json:"file_type"`
	StoreID     string                 `json:"store_id"`
	InitiatedBy string                 `json:"initiated_by"`
	Options     services.ImportOptions `json:"options"`
}

// NewProductImportTask builds the asynq task for a staged import run.
func NewProductImportTask(payload ProductImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeProductImport, data, asynq.MaxRetry(3)), nil
}

// ImportTaskHandler processes queued product imports.
type ImportTaskHandler struct {
	importService *services.ImportService
	logger        *zap.Logger
}

func NewImportTaskHandler(importService *services.ImportService, logger *zap.Logger) *ImportTaskHandler {
	return &ImportTaskHandler{importService: importService, logger: logger}
}

func (h *ImportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ProductImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal import payload: %v: %w", err, asynq.SkipRetry)
	}

	fileData, err := os.ReadFile(payload.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read staged import file %s: %v: %w", payload.FilePath, err, asynq.SkipRetry)
	}

	report, err := h.importService.Execute(ctx, services.ImportRequest{
		RunID:       payload.RunID,
		FileName:    payload.FileName,
		FileData:    fileData,
		FileType:    payload.FileType,
		StoreID:     payload.StoreID,
		InitiatedBy: payload.InitiatedBy,
		Options:     payload.Options,
	})
	if err != nil {
		// Configuration failures will not heal on retry.
		var cfgErr *services.ConfigurationError
		if errors.As(err, &cfgErr) {
			h.logger.Error("Queued import failed permanently",
				zap.String("runId", payload.RunID.String()),
				zap.Error(err),
			)
			removeStagedFile(payload.FilePath, h.logger)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	removeStagedFile(payload.FilePath, h.logger)

	h.logger.Info("Queued import completed",
		zap.String("runId", payload.RunID.String()),
		zap.Int("total", report.Total),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
	)
	return nil
}

func removeStagedFile(path string, logger *zap.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove staged import file", zap.String("path", path), zap.Error(err))
	}
}
