package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-gateway-backend/api"
	"inventory-gateway-backend/db/models"
	"inventory-gateway-backend/products/repositories"
	"inventory-gateway-backend/search"
	"inventory-gateway-backend/utils"
	"inventory-gateway-backend/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportService orchestrates one import run end to end: reference prefetch,
// the reconciler run, audit persistence, the error-report Excel + email, and
// live progress broadcasting. Both the synchronous controller path and the
// queued worker path execute through here.
type ImportService struct {
	client *api.Client
	repo   repositories.ImportRunRepository
	hub    *websocket.Hub
	index  *search.IndexService
	logger *zap.Logger
}

func NewImportService(
	client *api.Client,
	repo repositories.ImportRunRepository,
	hub *websocket.Hub,
	index *search.IndexService,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		client: client,
		repo:   repo,
		hub:    hub,
		index:  index,
		logger: logger,
	}
}

// ImportRequest carries everything one run needs. RunID refers to an
// already-created audit record (QUEUED or RUNNING).
type ImportRequest struct {
	RunID       uuid.UUID     `json:"run_id"`
	FileName    string        `json:"file_name"`
	FileData    []byte        `json:"-"`
	FileType    FileType      `json:"file_type"`
	StoreID     string        `json:"store_id"`
	InitiatedBy string        `json:"initiated_by"`
	Options     ImportOptions `json:"options"`
}

// Execute runs the pipeline for one request. Configuration failures mark the
// audit record FAILED and are returned; row failures live inside the report.
func (s *ImportService) Execute(ctx context.Context, req ImportRequest) (*ImportReport, error) {
	run, err := s.repo.GetRunByID(req.RunID)
	if err != nil {
		return nil, fmt.Errorf("import run %s not found: %w", req.RunID, err)
	}

	run.Status = models.ImportRunRunning
	if err := s.repo.UpdateRun(run); err != nil {
		s.logger.Warn("Failed to mark import run as running", zap.Error(err))
	}

	s.hub.BroadcastRunEvent(websocket.MessageTypeRunStarted, run.ID.String(), map[string]interface{}{
		"fileName": req.FileName,
		"storeId":  req.StoreID,
	})

	report, err := s.runPipeline(ctx, req, run)
	if err != nil {
		run.Status = models.ImportRunFailed
		run.FailureReason = err.Error()
		if updateErr := s.repo.UpdateRun(run); updateErr != nil {
			s.logger.Warn("Failed to persist failed import run", zap.Error(updateErr))
		}
		s.hub.BroadcastRunEvent(websocket.MessageTypeRunFailed, run.ID.String(), map[string]interface{}{
			"reason": err.Error(),
		})
		return nil, err
	}

	s.finalizeRun(run, req, report)

	s.hub.BroadcastRunEvent(websocket.MessageTypeRunCompleted, run.ID.String(), map[string]interface{}{
		"total":      report.Total,
		"successful": report.Successful,
		"failed":     report.Failed,
	})

	return report, nil
}

func (s *ImportService) runPipeline(ctx context.Context, req ImportRequest, run *models.ImportRun) (*ImportReport, error) {
	knownCategories, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to fetch categories: %v", err)}
	}
	knownSuppliers, err := s.client.ListSuppliers(ctx)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to fetch suppliers: %v", err)}
	}

	reconciler := NewImportReconciler(s.client, s.client, s.logger)
	reconciler.OnRowResult = func(result RowResult) {
		s.hub.BroadcastRunEvent(websocket.MessageTypeRowResult, run.ID.String(), map[string]interface{}{
			"rowNumber": result.RowNumber,
			"success":   result.Success,
			"name":      result.Row.Name,
			"error":     result.Error,
		})

		// Best effort: search indexing never affects the run's outcome.
		if result.Success && s.index != nil {
			product := api.Product{ID: result.CreatedID, NewProductRecord: result.Record}
			if err := s.index.IndexProduct(product); err != nil {
				s.logger.Warn("Failed to index imported product",
					zap.String("name", result.Row.Name),
					zap.Error(err),
				)
			}
		}
	}

	return reconciler.Run(ctx, req.FileData, req.FileType, knownCategories, knownSuppliers, req.StoreID, req.Options)
}

// finalizeRun persists totals and row errors, generates the error report and
// mails it to the initiator. All of it is best effort once the report exists.
func (s *ImportService) finalizeRun(run *models.ImportRun, req ImportRequest, report *ImportReport) {
	run.Status = models.ImportRunCompleted
	run.Total = report.Total
	run.Successful = report.Successful
	run.Failed = report.Failed
	run.NewCategories = marshalReferences(report.NewCategories)
	run.NewSuppliers = marshalReferences(report.NewSuppliers)

	rowErrors := collectRowErrors(run, req, report)
	if err := s.repo.LogRowErrors(rowErrors); err != nil {
		s.logger.Warn("Failed to log import row errors", zap.Error(err))
	}

	if len(rowErrors) > 0 {
		s.sendErrorReport(run, req, rowErrors)
	}

	if err := s.repo.UpdateRun(run); err != nil {
		s.logger.Warn("Failed to persist completed import run", zap.Error(err))
	}
}

func (s *ImportService) sendErrorReport(run *models.ImportRun, req ImportRequest, rowErrors []models.ImportRowError) {
	headers := []string{"RowNumber", "ProductName", "CategoryName", "SupplierName", "Reason", "ErrorType"}
	reportPath, err := utils.GenerateExcel(rowErrors, "import_errors_"+run.ID.String(), headers)
	if err != nil {
		s.logger.Warn("Failed to generate import error report", zap.Error(err))
		return
	}
	run.ReportPath = reportPath

	if req.InitiatedBy == "" {
		return
	}

	downloadLink := utils.GenerateDownloadLink(reportPath)
	subject := "Product Import Errors - " + time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(
		"%d of %d rows failed during the product import of %s. The attached report lists each failed row and the reason.",
		run.Failed, run.Total, req.FileName,
	)

	if err := utils.SendEmail(req.InitiatedBy, message, subject, downloadLink); err != nil {
		s.logger.Warn("Failed to email import error report", zap.Error(err))
		return
	}

	active := true
	emailLog := &models.EmailLog{
		ID:             uuid.New(),
		Recipient:      req.InitiatedBy,
		Subject:        subject,
		Message:        message,
		SentAt:         time.Now(),
		Active:         &active,
		AttachmentPath: downloadLink,
	}
	if err := s.repo.LogEmailSent(emailLog); err != nil {
		s.logger.Warn("Failed to log import report email", zap.Error(err))
	}
}

func collectRowErrors(run *models.ImportRun, req ImportRequest, report *ImportReport) []models.ImportRowError {
	var rowErrors []models.ImportRowError
	for _, result := range report.Results {
		if result.Success {
			continue
		}

		rawRow, err := json.Marshal(result.Row)
		if err != nil {
			rawRow = nil
		}

		rowErrors = append(rowErrors, models.ImportRowError{
			ID:           uuid.New(),
			ImportRunID:  run.ID,
			RowNumber:    result.RowNumber,
			ProductName:  result.Row.Name,
			CategoryName: result.Row.CategoryName,
			SupplierName: result.Row.SupplierName,
			Reason:       result.Error,
			ErrorType:    result.ErrorType,
			AddedVia:     models.BulkAddedViaType,
			RawRow:       rawRow,
			CreatedBy:    req.InitiatedBy,
		})
	}
	return rowErrors
}

func marshalReferences(refs []api.Reference) []byte {
	if len(refs) == 0 {
		return []byte("[]")
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return []byte("[]")
	}
	return data
}
