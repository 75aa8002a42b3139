package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"inventory-gateway-backend/api"
	"inventory-gateway-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testStoreID = "7b7f3f3e-9f3a-4d66-9d41-2f6a1f1f2a10"

type fakeDirectory struct {
	stores          []api.Store
	storesErr       error
	createdCats     []string
	createdSups     []string
	createErr       error
	nextReferenceID int
}

func (d *fakeDirectory) ListStores(ctx context.Context) ([]api.Store, error) {
	if d.storesErr != nil {
		return nil, d.storesErr
	}
	return d.stores, nil
}

func (d *fakeDirectory) CreateCategory(ctx context.Context, name string) (*api.Reference, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.createdCats = append(d.createdCats, name)
	d.nextReferenceID++
	return &api.Reference{ID: fmt.Sprintf("cat-%d", d.nextReferenceID), Name: name}, nil
}

func (d *fakeDirectory) CreateSupplier(ctx context.Context, name string) (*api.Reference, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.createdSups = append(d.createdSups, name)
	d.nextReferenceID++
	return &api.Reference{ID: fmt.Sprintf("sup-%d", d.nextReferenceID), Name: name}, nil
}

type fakeProducts struct {
	created []api.NewProductRecord
	// failNames triggers a backend rejection for specific product names.
	failNames map[string]string
}

func (p *fakeProducts) CreateProduct(ctx context.Context, record api.NewProductRecord) (*api.Product, error) {
	if msg, ok := p.failNames[record.Name]; ok {
		return nil, &api.APIError{StatusCode: 422, Message: msg}
	}
	p.created = append(p.created, record)
	return &api.Product{ID: fmt.Sprintf("prod-%d", len(p.created)), NewProductRecord: record}, nil
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{
		stores: []api.Store{{ID: testStoreID, Name: "Main Branch"}},
	}
}

func csvFile(rows ...string) []byte {
	header := "name,category,supplier,quantity,cost price,selling price,expiry date"
	return []byte(strings.Join(append([]string{header}, rows...), "\n"))
}

func runImport(
	t *testing.T,
	directory *fakeDirectory,
	products *fakeProducts,
	fileData []byte,
	opts ImportOptions,
	knownCategories []api.Reference,
	knownSuppliers []api.Reference,
) *ImportReport {
	t.Helper()
	reconciler := NewImportReconciler(directory, products, zap.NewNop())
	report, err := reconciler.Run(context.Background(), fileData, FileTypeCSV, knownCategories, knownSuppliers, testStoreID, opts)
	require.NoError(t, err)
	return report
}

func TestRunAllRowsSucceed(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{}

	file := csvFile(
		"Rice,Grains,Gupta,10,400,450,31/12/2026",
		"Milk,Dairy,Local Farm,24,12,15,2026-06-01",
	)

	report := runImport(t, directory, products, file, DefaultImportOptions(), nil, nil)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, products.created, 2)

	first := products.created[0]
	assert.Equal(t, "Rice", first.Name)
	assert.Equal(t, testStoreID, first.Supermarket)
	assert.Equal(t, "2026-12-31", first.ExpiryDate)
	assert.NotEmpty(t, first.Barcode, "missing barcode should be generated")
	assert.True(t, first.Price.Equal(first.SellingPrice))
	assert.False(t, first.SyncedWithPOS)
}

func TestRunCreatesMissingReferencesOnce(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{}

	// Same category under different casing must resolve to one create call.
	file := csvFile(
		"Rice,Grains,Gupta,10,400,450,2026-12-31",
		"Flour,GRAINS,gupta,5,90,110,2026-12-31",
		"Oats,grains ,Gupta,8,60,75,2026-12-31",
	)

	report := runImport(t, directory, products, file, DefaultImportOptions(), nil, nil)

	assert.Equal(t, 3, report.Successful)
	assert.Equal(t, []string{"Grains"}, directory.createdCats)
	assert.Equal(t, []string{"Gupta"}, directory.createdSups)
	require.Len(t, report.NewCategories, 1)
	require.Len(t, report.NewSuppliers, 1)
	assert.Equal(t, "Grains", report.NewCategories[0].Name)
}

func TestRunKnownReferencesAreNotRecreated(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{}

	file := csvFile("Rice,Grains,Gupta,10,400,450,2026-12-31")

	report := runImport(t, directory, products, file, DefaultImportOptions(),
		[]api.Reference{{ID: "cat-existing", Name: "Grains"}},
		[]api.Reference{{ID: "sup-existing", Name: "Gupta"}},
	)

	assert.Equal(t, 1, report.Successful)
	assert.Empty(t, directory.createdCats)
	assert.Empty(t, directory.createdSups)
	assert.Empty(t, report.NewCategories)
	require.Len(t, products.created, 1)
	assert.Equal(t, "cat-existing", products.created[0].Category)
	assert.Equal(t, "sup-existing", products.created[0].Supplier)
}

func TestRunUnknownReferenceFailsWhenCreateDisabled(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{}

	file := csvFile("Rice,Exotic,Gupta,10,400,450,2026-12-31")

	opts := ImportOptions{CreateMissingCategories: false, CreateMissingSuppliers: true}
	report := runImport(t, directory, products, file, opts,
		[]api.Reference{{ID: "cat-1", Name: "Grains"}}, nil)

	assert.Equal(t, 0, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results, 1)

	result := report.Results[0]
	assert.Equal(t, models.ReferenceErrorType, result.ErrorType)
	assert.Contains(t, result.Error, `unknown category "Exotic"`)
	assert.Contains(t, result.Error, "Grains", "known names should be listed")
	assert.Empty(t, directory.createdCats)
}

func TestRunRowFailuresAreIsolated(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{failNames: map[string]string{"Milk": "duplicate barcode"}}

	file := csvFile(
		"Rice,Grains,Gupta,10,400,450,2026-12-31",
		"Milk,Dairy,Local Farm,24,12,15,2026-06-01",
		",Dairy,Local Farm,1,2,3,2026-06-01",
		"Yoghurt,Dairy,Local Farm,6,8,10,soonish",
		"Bread,Bakery,City Bakers,30,9,12,2026-03-15",
	)

	report := runImport(t, directory, products, file, DefaultImportOptions(), nil, nil)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 3, report.Failed)
	assert.Equal(t, report.Total, report.Successful+report.Failed)

	require.Len(t, report.Results, 5)
	// Results keep file order; row numbers start at 2 under the header.
	for i, result := range report.Results {
		assert.Equal(t, i+2, result.RowNumber)
	}

	assert.True(t, report.Results[0].Success)
	assert.Equal(t, models.SubmissionErrorType, report.Results[1].ErrorType)
	assert.Contains(t, report.Results[1].Error, "duplicate barcode")
	assert.Equal(t, models.ValidationErrorType, report.Results[2].ErrorType)
	assert.Equal(t, models.DateFormatErrorType, report.Results[3].ErrorType)
	assert.Contains(t, report.Results[3].Error, `"soonish"`)
	assert.True(t, report.Results[4].Success, "rows after failures must still be processed")
}

func TestRunRejectsMalformedStoreID(t *testing.T) {
	reconciler := NewImportReconciler(testDirectory(), &fakeProducts{}, zap.NewNop())

	_, err := reconciler.Run(context.Background(), csvFile(), FileTypeCSV, nil, nil, "not-a-uuid", DefaultImportOptions())
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "not a valid UUID")
}

func TestRunRejectsUnknownStore(t *testing.T) {
	directory := &fakeDirectory{stores: []api.Store{{ID: "11111111-1111-1111-1111-111111111111", Name: "Other"}}}
	reconciler := NewImportReconciler(directory, &fakeProducts{}, zap.NewNop())

	_, err := reconciler.Run(context.Background(), csvFile(), FileTypeCSV, nil, nil, testStoreID, DefaultImportOptions())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "not found")
}

func TestRunStoreCheckPrecedesFileRead(t *testing.T) {
	reconciler := NewImportReconciler(testDirectory(), &fakeProducts{}, zap.NewNop())

	// The garbage payload must never be touched when the store id is invalid.
	_, err := reconciler.Run(context.Background(), []byte("not a spreadsheet"), FileTypeXLSX, nil, nil, "nope", DefaultImportOptions())

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "not a valid UUID")
}

func TestRunAcceptsSpreadsheetDateCells(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{}

	// Date-typed cells are the normal way Excel saves dates; such a row must
	// import cleanly, never fail on the date.
	file := buildSpreadsheet(t, map[string]interface{}{
		"A1": "name", "B1": "category", "C1": "supplier",
		"D1": "quantity", "E1": "cost price", "F1": "selling price",
		"G1": "expiry date",
		"A2": "Rice", "B2": "Grains", "C2": "Gupta",
		"D2": 10, "E2": 400, "F2": 450,
		"G2": time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC),
	})

	reconciler := NewImportReconciler(directory, products, zap.NewNop())
	report, err := reconciler.Run(context.Background(), file, FileTypeXLSX, nil, nil, testStoreID, DefaultImportOptions())
	require.NoError(t, err)

	require.Equal(t, 1, report.Successful, "date-typed cell must not fail the row: %+v", report.Results)
	require.Len(t, products.created, 1)
	assert.Equal(t, "2026-12-31", products.created[0].ExpiryDate)
}

func TestRunEmitsRowResults(t *testing.T) {
	directory := testDirectory()
	products := &fakeProducts{}
	reconciler := NewImportReconciler(directory, products, zap.NewNop())

	var seen []RowResult
	reconciler.OnRowResult = func(result RowResult) { seen = append(seen, result) }

	file := csvFile(
		"Rice,Grains,Gupta,10,400,450,2026-12-31",
		"Yoghurt,Dairy,Local Farm,6,8,10,soonish",
	)
	report, err := reconciler.Run(context.Background(), file, FileTypeCSV, nil, nil, testStoreID, DefaultImportOptions())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, report.Results, seen)
	assert.Equal(t, "Rice", seen[0].Record.Name, "successful rows carry the submitted record")
}
