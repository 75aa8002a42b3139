package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ImportRunStatus string

const (
	ImportRunQueued    ImportRunStatus = "QUEUED"
	ImportRunRunning   ImportRunStatus = "RUNNING"
	ImportRunCompleted ImportRunStatus = "COMPLETED"
	ImportRunFailed    ImportRunStatus = "FAILED"
)

type ImportErrorType string

const (
	ValidationErrorType ImportErrorType = "VALIDATION"
	ReferenceErrorType  ImportErrorType = "REFERENCE"
	DateFormatErrorType ImportErrorType = "DATE_FORMAT"
	SubmissionErrorType ImportErrorType = "SUBMISSION"
)

type AddedViaType string

const (
	BulkAddedViaType   AddedViaType = "BULK_UPLOAD"
	SingleAddedViaType AddedViaType = "SINGLE_ENTRY"
)

// ImportRun is the audit record for one invocation of the import pipeline.
type ImportRun struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	StoreID       uuid.UUID       `gorm:"type:uuid" json:"store_id"`
	FileName      string          `json:"file_name"`
	Status        ImportRunStatus `json:"status"`
	Total         int             `json:"total"`
	Successful    int             `json:"successful"`
	Failed        int             `json:"failed"`
	NewCategories datatypes.JSON  `json:"new_categories"`
	NewSuppliers  datatypes.JSON  `json:"new_suppliers"`
	ReportPath    string          `json:"report_path"`
	InitiatedBy   string          `json:"initiated_by"`
	FailureReason string          `json:"failure_reason"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ImportRowError is one failed row of an import run, kept for the error report.
type ImportRowError struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ImportRunID  uuid.UUID       `gorm:"type:uuid;index" json:"import_run_id"`
	RowNumber    int             `json:"row_number"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name"`
	SupplierName string          `json:"supplier_name"`
	Reason       string          `json:"reason"`
	ErrorType    ImportErrorType `json:"error_type"`
	AddedVia     AddedViaType    `json:"added_via"`
	RawRow       datatypes.JSON  `json:"raw_row"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
