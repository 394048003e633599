package worktype

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tgfc/som/internal/money"
)

// Catalog resolves work types by id. Absence is reported, not failed;
// callers degrade a missing work type to "no installation".
type Catalog interface {
	Get(id string) (WorkType, bool)
	All() []WorkType
	ByCategory(c Category) []WorkType
}

// MemoryCatalog serves a fixed in-process table. The labor master file is
// an external system; this mirrors the rows pricing actually reads.
type MemoryCatalog struct {
	types map[string]WorkType
}

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var seedRows = []WorkType{
	{ID: "0000", Name: "Pure delivery", Category: CategoryPureDelivery,
		BasicRate: rate("1"), AdvancedRate: rate("1"), DeliveryCostRate: rate("0.95")},
	{ID: "0001", Name: "Standard installation", Category: CategoryInstallation, MinimumWage: money.New(500),
		BasicRate: rate("0.85"), AdvancedRate: rate("0.90"), DeliveryCostRate: rate("0.95")},
	{ID: "0002", Name: "Air conditioner installation", Category: CategoryInstallation, MinimumWage: money.New(1500),
		BasicRate: rate("0.80"), AdvancedRate: rate("0.85"), DeliveryCostRate: rate("0.90")},
	{ID: "0003", Name: "Large appliance installation", Category: CategoryInstallation, MinimumWage: money.New(1000),
		BasicRate: rate("0.82"), AdvancedRate: rate("0.88"), DeliveryCostRate: rate("0.92")},
	{ID: "0004", Name: "Furniture assembly", Category: CategoryInstallation, MinimumWage: money.New(300),
		BasicRate: rate("0.85"), AdvancedRate: rate("0.90"), DeliveryCostRate: rate("0.95")},
	{ID: "9001", Name: "Home delivery, ambient", Category: CategoryHomeDelivery,
		BasicRate: rate("1"), AdvancedRate: rate("1"), DeliveryCostRate: rate("1.00")},
	{ID: "9002", Name: "Home delivery, chilled", Category: CategoryHomeDelivery,
		BasicRate: rate("1"), AdvancedRate: rate("1"), DeliveryCostRate: rate("1.10")},
}

// NewMemoryCatalog returns a catalog preloaded with the standard rows.
func NewMemoryCatalog() *MemoryCatalog {
	types := make(map[string]WorkType, len(seedRows))
	for _, wt := range seedRows {
		types[wt.ID] = wt
	}
	return &MemoryCatalog{types: types}
}

func (c *MemoryCatalog) Get(id string) (WorkType, bool) {
	wt, ok := c.types[id]
	return wt, ok
}

func (c *MemoryCatalog) All() []WorkType {
	out := make([]WorkType, 0, len(c.types))
	for _, wt := range c.types {
		out = append(out, wt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *MemoryCatalog) ByCategory(cat Category) []WorkType {
	var out []WorkType
	for _, wt := range c.All() {
		if wt.Category == cat {
			out = append(out, wt)
		}
	}
	return out
}

// Recommend picks the usual work type for a product category.
func (c *MemoryCatalog) Recommend(productCategory string) WorkType {
	id := "0001"
	switch productCategory {
	case "AC":
		id = "0002"
	case "APPLIANCE":
		id = "0003"
	case "FURNITURE":
		id = "0004"
	case "3C":
		id = PureDeliveryID
	}
	return c.types[id]
}
