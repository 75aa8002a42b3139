package services

import (
	"context"
	"fmt"
	"strings"

	"inventory-gateway-backend/api"
	"inventory-gateway-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferenceDirectory is the slice of the remote API the reconciler needs for
// reference resolution. Listing categories/suppliers is the caller's job
// (they arrive pre-fetched), so only creation and the store check remain.
type ReferenceDirectory interface {
	CreateCategory(ctx context.Context, name string) (*api.Reference, error)
	CreateSupplier(ctx context.Context, name string) (*api.Reference, error)
	ListStores(ctx context.Context) ([]api.Store, error)
}

// ProductCreator submits one normalized product record to the backend.
type ProductCreator interface {
	CreateProduct(ctx context.Context, record api.NewProductRecord) (*api.Product, error)
}

// ImportOptions are the recognized switches for one import run.
type ImportOptions struct {
	CreateMissingCategories bool
	CreateMissingSuppliers  bool
}

func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		CreateMissingCategories: true,
		CreateMissingSuppliers:  true,
	}
}

// RowResult is the outcome of one row: the (typed) row for display, a
// success flag, and on failure a human-readable message.
type RowResult struct {
	RowNumber int
	Success   bool
	Row       ImportRow
	Error     string
	ErrorType models.ImportErrorType
	CreatedID string
	// Record is the normalized shape that was submitted; set on success only.
	Record api.NewProductRecord
}

// ImportReport aggregates a whole run. Results preserve input row order and
// Total always equals Successful + Failed.
type ImportReport struct {
	Total         int
	Successful    int
	Failed        int
	Results       []RowResult
	NewCategories []api.Reference
	NewSuppliers  []api.Reference
}

// ConfigurationError aborts a run before any row is processed: malformed or
// unknown target store, unreadable file.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// ImportReconciler turns a raw tabular file plus reference data into a
// sequence of backend create calls, tolerating per-row failure without
// aborting the batch. Rows are processed strictly sequentially: each row's
// backend calls complete before the next row starts.
type ImportReconciler struct {
	directory ReferenceDirectory
	products  ProductCreator
	logger    *zap.Logger

	// OnRowResult, when set, is invoked after every row with its outcome.
	// Used for live progress reporting; failures there never affect the run.
	OnRowResult func(RowResult)
}

func NewImportReconciler(directory ReferenceDirectory, products ProductCreator, logger *zap.Logger) *ImportReconciler {
	return &ImportReconciler{
		directory: directory,
		products:  products,
		logger:    logger,
	}
}

// runState carries the mutable per-run bookkeeping the row loop updates.
type runState struct {
	cache              *ReferenceCache
	knownCategoryNames []string
	knownSupplierNames []string
	newCategories      []api.Reference
	newSuppliers       []api.Reference
}

// Run executes one import: validate the target store, parse the file, then
// process every row in order. Only pre-run validation returns an error; row
// failures are captured in the report.
func (r *ImportReconciler) Run(
	ctx context.Context,
	fileData []byte,
	fileType FileType,
	knownCategories []api.Reference,
	knownSuppliers []api.Reference,
	targetStoreID string,
	opts ImportOptions,
) (*ImportReport, error) {
	storeID := strings.TrimSpace(targetStoreID)
	if _, err := uuid.Parse(storeID); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("target store id %q is not a valid UUID", targetStoreID)}
	}

	stores, err := r.directory.ListStores(ctx)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to verify target store: %v", err)}
	}
	if !storeExists(stores, storeID) {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("target store %s not found in store list", storeID)}
	}

	rawRows, err := ReadTabularFile(fileData, fileType)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unreadable import file: %v", err)}
	}

	state := &runState{cache: NewReferenceCache()}
	for _, ref := range knownCategories {
		state.cache.Put(CategoryReference, ref.Name, ref.ID)
		state.knownCategoryNames = append(state.knownCategoryNames, ref.Name)
	}
	for _, ref := range knownSuppliers {
		state.cache.Put(SupplierReference, ref.Name, ref.ID)
		state.knownSupplierNames = append(state.knownSupplierNames, ref.Name)
	}
	for _, store := range stores {
		state.cache.Put(StoreReference, store.Name, store.ID)
	}

	report := &ImportReport{Total: len(rawRows)}
	for i, raw := range rawRows {
		row := ConvertRow(raw, i+2) // +2: header row plus 1-based numbering
		result := r.processRow(ctx, row, storeID, state, opts)

		if result.Success {
			report.Successful++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, result)

		if r.OnRowResult != nil {
			r.OnRowResult(result)
		}
	}

	report.NewCategories = state.newCategories
	report.NewSuppliers = state.newSuppliers

	r.logger.Info("Import run completed",
		zap.String("store_id", storeID),
		zap.Int("total", report.Total),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Int("new_categories", len(report.NewCategories)),
		zap.Int("new_suppliers", len(report.NewSuppliers)),
	)

	return report, nil
}

func (r *ImportReconciler) processRow(ctx context.Context, row ImportRow, storeID string, state *runState, opts ImportOptions) RowResult {
	fail := func(errType models.ImportErrorType, message string) RowResult {
		return RowResult{RowNumber: row.RowNumber, Row: row, Error: message, ErrorType: errType}
	}

	var missing []string
	if row.Name == "" {
		missing = append(missing, "product name")
	}
	if row.CategoryName == "" {
		missing = append(missing, "category")
	}
	if row.SupplierName == "" {
		missing = append(missing, "supplier")
	}
	if len(missing) > 0 {
		return fail(models.ValidationErrorType, fmt.Sprintf("row %d: missing required fields: %s", row.RowNumber, strings.Join(missing, ", ")))
	}

	categoryID, result := r.resolveReference(ctx, row, state, CategoryReference, opts.CreateMissingCategories)
	if result != nil {
		return *result
	}

	supplierID, result := r.resolveReference(ctx, row, state, SupplierReference, opts.CreateMissingSuppliers)
	if result != nil {
		return *result
	}

	if row.ExpiryDate == "" {
		return fail(models.DateFormatErrorType, fmt.Sprintf(
			"row %d: could not parse expiry date %q; accepted formats: %s",
			row.RowNumber, row.ExpiryRaw, AcceptedDateFormats,
		))
	}

	if row.Barcode == "" {
		row.Barcode = GenerateBarcode()
	}

	record := api.NewProductRecord{
		Name:                   row.Name,
		Category:               categoryID,
		Supplier:               supplierID,
		Supermarket:            storeID,
		Quantity:               row.Quantity,
		CostPrice:              row.CostPrice,
		SellingPrice:           row.SellingPrice,
		Price:                  row.SellingPrice,
		ExpiryDate:             row.ExpiryDate,
		Barcode:                row.Barcode,
		Brand:                  row.Brand,
		Weight:                 row.Weight,
		Origin:                 row.Origin,
		Description:            row.Description,
		Location:               row.Location,
		HalalCertified:         row.HalalCertified,
		HalalCertificationBody: row.HalalCertificationBody,
		SyncedWithPOS:          false,
	}

	created, err := r.products.CreateProduct(ctx, record)
	if err != nil {
		return fail(models.SubmissionErrorType, fmt.Sprintf("row %d: %v", row.RowNumber, err))
	}

	success := RowResult{RowNumber: row.RowNumber, Success: true, Row: row, Record: record}
	if created != nil {
		success.CreatedID = created.ID
	}
	return success
}

// resolveReference turns a category or supplier name into its backend id via
// the per-run cache, creating the reference when allowed. A non-nil RowResult
// means the row failed.
func (r *ImportReconciler) resolveReference(ctx context.Context, row ImportRow, state *runState, kind ReferenceKind, createMissing bool) (string, *RowResult) {
	name := row.CategoryName
	known := state.knownCategoryNames
	if kind == SupplierReference {
		name = row.SupplierName
		known = state.knownSupplierNames
	}

	if id, ok := state.cache.Get(kind, name); ok {
		return id, nil
	}

	if !createMissing {
		message := fmt.Sprintf(
			"row %d: unknown %s %q; known %s names: %s",
			row.RowNumber, kind, name, kind, knownNamesForMessage(known),
		)
		result := RowResult{RowNumber: row.RowNumber, Row: row, Error: message, ErrorType: models.ReferenceErrorType}
		return "", &result
	}

	trimmed := strings.TrimSpace(name)
	var created *api.Reference
	var err error
	if kind == SupplierReference {
		created, err = r.directory.CreateSupplier(ctx, trimmed)
	} else {
		created, err = r.directory.CreateCategory(ctx, trimmed)
	}
	if err != nil {
		message := fmt.Sprintf("row %d: failed to create %s %q: %v", row.RowNumber, kind, trimmed, err)
		result := RowResult{RowNumber: row.RowNumber, Row: row, Error: message, ErrorType: models.ReferenceErrorType}
		return "", &result
	}

	if created.Name == "" {
		created.Name = trimmed
	}
	state.cache.Put(kind, created.Name, created.ID)
	if kind == SupplierReference {
		state.newSuppliers = append(state.newSuppliers, *created)
		state.knownSupplierNames = append(state.knownSupplierNames, created.Name)
	} else {
		state.newCategories = append(state.newCategories, *created)
		state.knownCategoryNames = append(state.knownCategoryNames, created.Name)
	}

	r.logger.Info("Created missing reference during import",
		zap.String("kind", string(kind)),
		zap.String("name", created.Name),
		zap.String("id", created.ID),
		zap.Int("row", row.RowNumber),
	)

	return created.ID, nil
}

func knownNamesForMessage(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func storeExists(stores []api.Store, id string) bool {
	for _, store := range stores {
		if strings.EqualFold(store.ID, id) {
			return true
		}
	}
	return false
}
