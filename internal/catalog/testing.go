package catalog

// Seed is a test helper that inserts a product when using the in-memory catalog.
func Seed(c Catalog, p Product) {
	if mem, ok := c.(*inMemoryCatalog); ok {
		mem.mu.Lock()
		mem.products[p.ID] = p
		mem.mu.Unlock()
	}
}
