package services

// Catalog is a read-only snapshot of brands, their products and the allowed price points.
type Catalog struct {
	Brands      map[string][]string
	PricePoints []float64
}

// CatalogProvider returns catalog snapshots. Callers may modify a snapshot
// without affecting the provider.
type CatalogProvider interface {
	Snapshot() Catalog
}

// StaticCatalog serves a fixed catalog held in memory.
type StaticCatalog struct {
	brands      map[string][]string
	pricePoints []float64
}

// NewStaticCatalog copies brands and pricePoints into a new StaticCatalog.
func NewStaticCatalog(brands map[string][]string, pricePoints []float64) *StaticCatalog {
	c := &StaticCatalog{}
	snapshot := Catalog{Brands: brands, PricePoints: pricePoints}.clone()
	c.brands, c.pricePoints = snapshot.Brands, snapshot.PricePoints
	return c
}

// DefaultCatalog is the stationery catalog the shop launched with.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(map[string][]string{
		"Classmate": {"Executive Hindi", "Executive English", "Mathematics", "Register", "A4 Copy"},
		"Navneet":   {"Drawing Book", "Notebook 200pg", "Sketch Book"},
		"Camlin":    {"Pencil", "Eraser", "Sharpener", "Colors"},
	}, []float64{20, 30, 40})
}

func (c *StaticCatalog) Snapshot() Catalog {
	return Catalog{Brands: c.brands, PricePoints: c.pricePoints}.clone()
}

func (c Catalog) clone() Catalog {
	brands := make(map[string][]string, len(c.Brands))
	for brand, products := range c.Brands {
		brands[brand] = append([]string(nil), products...)
	}
	return Catalog{
		Brands:      brands,
		PricePoints: append([]float64(nil), c.PricePoints...),
	}
}
