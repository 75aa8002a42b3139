package services

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one loosely-typed record as produced by the tabular file reader:
// string-keyed, any-valued, column names exactly as they appeared in the file.
type RawRow map[string]interface{}

// ImportRow is the strictly-typed product row the reconciler works with.
// String fields are trimmed; prices already carry their fallbacks applied.
type ImportRow struct {
	RowNumber    int
	Name         string
	CategoryName string
	SupplierName string
	Quantity     decimal.Decimal
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	// ExpiryDate is the normalized YYYY-MM-DD form, empty when normalization
	// failed. ExpiryRaw preserves the original cell for error messages.
	ExpiryDate string
	ExpiryRaw  string
	Barcode    string

	Brand                  string
	Weight                 string
	Origin                 string
	Description            string
	Location               string
	HalalCertified         bool
	HalalCertificationBody string
}

// columnSynonyms maps each canonical field to the header spellings accepted
// for it. Headers are matched case-insensitively with underscores, hyphens
// and surrounding whitespace ignored.
var columnSynonyms = map[string][]string{
	"name":                     {"name", "product name", "product", "item name", "item"},
	"category":                 {"category", "category name", "product category"},
	"supplier":                 {"supplier", "supplier name", "vendor"},
	"quantity":                 {"quantity", "qty", "stock", "stock quantity"},
	"cost_price":               {"cost price", "cost", "purchase price", "buying price", "unit cost"},
	"selling_price":            {"selling price", "price", "sale price", "retail price"},
	"expiry_date":              {"expiry date", "expiry", "expiration date", "expires", "best before"},
	"barcode":                  {"barcode", "bar code", "ean", "upc"},
	"brand":                    {"brand"},
	"weight":                   {"weight"},
	"origin":                   {"origin", "country of origin"},
	"description":              {"description", "desc"},
	"location":                 {"location", "storage location", "aisle"},
	"halal_certified":          {"halal certified", "halal"},
	"halal_certification_body": {"halal certification body", "certification body", "certified by"},
}

var headerSeparators = regexp.MustCompile(`[_\-]+`)
var spaceRuns = regexp.MustCompile(`\s+`)

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = headerSeparators.ReplaceAllString(h, " ")
	return spaceRuns.ReplaceAllString(h, " ")
}

// fieldValue finds a row value by canonical field name, tolerating the
// synonym spellings above. Synonyms are tried in their declared order so a
// file carrying two matching headers (say "Price" and "Selling Price")
// always resolves to the first-listed spelling.
func fieldValue(row RawRow, field string) (interface{}, bool) {
	normalized := make(map[string]interface{}, len(row))
	for key, value := range row {
		normalized[normalizeHeader(key)] = value
	}
	for _, synonym := range columnSynonyms[field] {
		if value, ok := normalized[synonym]; ok {
			return value, true
		}
	}
	return nil, false
}

func stringField(row RawRow, field string) string {
	value, ok := fieldValue(row, field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringValue(value))
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseDecimal parses a numeric cell leniently: currency symbols, thousands
// separators and other decoration are stripped before parsing, so values
// like "R1,299.50" or "1 299" resolve to their plain number.
func ParseDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	}

	cleaned := nonNumeric.ReplaceAllString(stringValue(value), "")
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, fmt.Errorf("no numeric value in %q", stringValue(value))
	}

	return decimal.NewFromString(cleaned)
}

// minimumCostPrice is the smallest representable positive unit, used when a
// row carries no usable cost price.
var minimumCostPrice = decimal.New(1, -2) // 0.01

// ConvertRow turns one raw spreadsheet row into a typed ImportRow, applying
// the price fallbacks: cost price defaults to 0.01 when missing or
// non-positive, selling price defaults to cost price and is raised to it
// when lower. Reference names are left unresolved for the reconciler.
func ConvertRow(raw RawRow, rowNumber int) ImportRow {
	row := ImportRow{
		RowNumber:    rowNumber,
		Name:         stringField(raw, "name"),
		CategoryName: stringField(raw, "category"),
		SupplierName: stringField(raw, "supplier"),
		Barcode:      stringField(raw, "barcode"),

		Brand:                  stringField(raw, "brand"),
		Weight:                 stringField(raw, "weight"),
		Origin:                 stringField(raw, "origin"),
		Description:            stringField(raw, "description"),
		Location:               stringField(raw, "location"),
		HalalCertificationBody: stringField(raw, "halal_certification_body"),
	}

	quantity, err := ParseDecimal(mustField(raw, "quantity"))
	if err != nil || quantity.IsNegative() {
		quantity = decimal.Zero
	}
	row.Quantity = quantity

	cost, err := ParseDecimal(mustField(raw, "cost_price"))
	if err != nil || cost.LessThanOrEqual(decimal.Zero) {
		cost = minimumCostPrice
	}
	row.CostPrice = cost

	selling, err := ParseDecimal(mustField(raw, "selling_price"))
	if err != nil || selling.LessThanOrEqual(decimal.Zero) {
		selling = cost
	}
	// The selling price is never allowed below cost price.
	if selling.LessThan(cost) {
		selling = cost
	}
	row.SellingPrice = selling

	expiryValue, _ := fieldValue(raw, "expiry_date")
	row.ExpiryRaw = strings.TrimSpace(stringValue(expiryValue))
	row.ExpiryDate = NormalizeExpiryDate(expiryValue)

	row.HalalCertified = parseCertifiedFlag(stringField(raw, "halal_certified"))

	return row
}

func mustField(row RawRow, field string) interface{} {
	value, _ := fieldValue(row, field)
	return value
}

// parseCertifiedFlag defaults to true: only an explicit negative turns the
// certification flag off, absent or unparseable values keep it on.
func parseCertifiedFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "no", "n", "0":
		return false
	default:
		return true
	}
}

// GenerateBarcode synthesizes a barcode from the low-order digits of the
// current time plus a short random suffix. Unique enough within a run, not
// guaranteed globally unique.
func GenerateBarcode() string {
	return fmt.Sprintf("%010d%03d", time.Now().UnixMilli()%10_000_000_000, rand.Intn(1000))
}
