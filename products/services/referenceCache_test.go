package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceCacheCaseInsensitiveLookup(t *testing.T) {
	cache := NewReferenceCache()
	cache.Put(CategoryReference, "Dairy", "cat-1")

	for _, name := range []string{"Dairy", "dairy", "DAIRY", "  dairy  "} {
		id, ok := cache.Get(CategoryReference, name)
		assert.True(t, ok, "lookup %q", name)
		assert.Equal(t, "cat-1", id)
	}
}

func TestReferenceCacheKindsAreIsolated(t *testing.T) {
	cache := NewReferenceCache()
	cache.Put(CategoryReference, "Fresh", "cat-1")
	cache.Put(SupplierReference, "Fresh", "sup-1")
	cache.Put(StoreReference, "Fresh", "store-1")

	id, _ := cache.Get(CategoryReference, "fresh")
	assert.Equal(t, "cat-1", id)
	id, _ = cache.Get(SupplierReference, "fresh")
	assert.Equal(t, "sup-1", id)
	id, _ = cache.Get(StoreReference, "fresh")
	assert.Equal(t, "store-1", id)
}

func TestReferenceCacheMiss(t *testing.T) {
	cache := NewReferenceCache()
	_, ok := cache.Get(SupplierReference, "nobody")
	assert.False(t, ok)
}
