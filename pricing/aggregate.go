package pricing

import "embroidery-backoffice/models"

// OrderGroup is the set of order lines sharing product type and embroidery option
type OrderGroup struct {
	Key           string             `json:"key"`
	ProductType   string             `json:"productType"`
	Embroidery    models.Embroidery  `json:"embroidery"`
	Orders        []models.OrderLine `json:"orders"`
	TotalQuantity int                `json:"totalQuantity"`
}

// IsClientOwned reports whether the group is embroidery-only work on client garments
func (g OrderGroup) IsClientOwned() bool {
	return g.ProductType == models.ProductTypeClientOwned
}

// IsPatches reports whether the group prices each line at its own per-patch price
func (g OrderGroup) IsPatches() bool {
	return g.ProductType == models.ProductTypePatches
}

// Aggregate groups order lines by product type and embroidery option.
// Lines whose product type the catalog cannot price are returned in skipped.
// Groups keep the order in which their first line appeared.
func Aggregate(orders []models.OrderLine, config *PricingConfig) (groups []OrderGroup, skipped []models.OrderLine) {
	groups = []OrderGroup{}
	index := make(map[string]int)

	for _, order := range orders {
		if !config.HasProduct(order.ProductType) {
			skipped = append(skipped, order)
			continue
		}

		key := order.GroupKey()
		i, exists := index[key]
		if !exists {
			groups = append(groups, OrderGroup{
				Key:         key,
				ProductType: order.ProductType,
				Embroidery:  order.EmbroideryOrDefault(),
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Orders = append(groups[i].Orders, order)
		groups[i].TotalQuantity += order.Quantity
	}

	return groups, skipped
}

// GroupKeys returns the set of keys present in groups
func GroupKeys(groups []OrderGroup) map[string]bool {
	keys := make(map[string]bool, len(groups))
	for _, g := range groups {
		keys[g.Key] = true
	}
	return keys
}
