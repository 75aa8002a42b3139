package services

import "strings"

// ReferenceKind selects which of the cache's mappings a lookup targets.
type ReferenceKind string

const (
	CategoryReference ReferenceKind = "category"
	SupplierReference ReferenceKind = "supplier"
	StoreReference    ReferenceKind = "store"
)

// ReferenceCache maps lower-cased, trimmed reference names to backend
// identifiers for the duration of a single import run. It is owned by the
// run that created it and is never shared across runs, so a name is resolved
// against the backend at most once per run.
type ReferenceCache struct {
	categories map[string]string
	suppliers  map[string]string
	stores     map[string]string
}

func NewReferenceCache() *ReferenceCache {
	return &ReferenceCache{
		categories: make(map[string]string),
		suppliers:  make(map[string]string),
		stores:     make(map[string]string),
	}
}

// Get looks up a reference id by name, case-insensitively.
func (c *ReferenceCache) Get(kind ReferenceKind, name string) (string, bool) {
	id, ok := c.mapping(kind)[normalizeReferenceName(name)]
	return id, ok
}

// Put inserts or overwrites a name→id entry.
func (c *ReferenceCache) Put(kind ReferenceKind, name, id string) {
	c.mapping(kind)[normalizeReferenceName(name)] = id
}

func (c *ReferenceCache) mapping(kind ReferenceKind) map[string]string {
	switch kind {
	case SupplierReference:
		return c.suppliers
	case StoreReference:
		return c.stores
	default:
		return c.categories
	}
}

func normalizeReferenceName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
