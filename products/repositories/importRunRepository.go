package repositories

import (
	"fmt"

	"inventory-gateway-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportRunRepository interface {
	CreateRun(run *models.ImportRun) error
	UpdateRun(run *models.ImportRun) error
	GetRunByID(id uuid.UUID) (*models.ImportRun, error)
	ListRuns(limit, offset int) ([]models.ImportRun, error)
	LogRowErrors(rowErrors []models.ImportRowError) error
	GetRowErrors(runID uuid.UUID) ([]models.ImportRowError, error)
	LogEmailSent(emailLog *models.EmailLog) error
}

type importRunRepository struct {
	db *gorm.DB
}

func NewImportRunRepository(db *gorm.DB) ImportRunRepository {
	return &importRunRepository{db: db}
}

func (r *importRunRepository) CreateRun(run *models.ImportRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}
	return nil
}

func (r *importRunRepository) UpdateRun(run *models.ImportRun) error {
	if err := r.db.Save(run).Error; err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}
	return nil
}

func (r *importRunRepository) GetRunByID(id uuid.UUID) (*models.ImportRun, error) {
	var run models.ImportRun
	if err := r.db.First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *importRunRepository) ListRuns(limit, offset int) ([]models.ImportRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []models.ImportRun
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	return runs, nil
}

func (r *importRunRepository) LogRowErrors(rowErrors []models.ImportRowError) error {
	if len(rowErrors) == 0 {
		return nil
	}
	if err := r.db.Create(&rowErrors).Error; err != nil {
		return fmt.Errorf("failed to log import row errors: %w", err)
	}
	return nil
}

func (r *importRunRepository) GetRowErrors(runID uuid.UUID) ([]models.ImportRowError, error) {
	var rowErrors []models.ImportRowError
	err := r.db.Where("import_run_id = ?", runID).Order("row_number ASC").Find(&rowErrors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import row errors: %w", err)
	}
	return rowErrors, nil
}

func (r *importRunRepository) LogEmailSent(emailLog *models.EmailLog) error {
	if err := r.db.Create(emailLog).Error; err != nil {
		return fmt.Errorf("failed to log email: %w", err)
	}
	return nil
}
