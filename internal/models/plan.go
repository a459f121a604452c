package models

// PlanFeature describes a single service feature of a plan
type PlanFeature struct {
	Name     string `json:"name"`
	Included bool   `json:"included"`
}

// Plan is a purchasable RSA policy plan from the catalog
type Plan struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Price         float64       `json:"price"`         // Discounted price
	OriginalPrice float64       `json:"originalPrice"` // MRP
	Duration      string        `json:"duration"`
	IsMostPopular bool          `json:"isMostPopular"`
	Features      []PlanFeature `json:"features"`
}

var standardFeatures = []PlanFeature{
	{Name: "24/7 Roadside Assistance", Included: true},
	{Name: "Nation Wide Towing", Included: true},
	{Name: "Flat Tire Assistance", Included: true},
	{Name: "Fuel Delivery", Included: true},
	{Name: "Battery Jump Start", Included: true},
}

var planCatalog = []Plan{
	{
		ID:            "Kalyan_001",
		Type:          "Standard Coverage",
		Price:         1,
		OriginalPrice: 3500,
		Duration:      "1 Year",
		Features:      standardFeatures,
	},
	{
		ID:            "Kalyan_002",
		Type:          "Premium Coverage",
		Price:         4499,
		OriginalPrice: 6000,
		Duration:      "2 Year",
		Features:      standardFeatures,
	},
	{
		ID:            "Kalyan_003",
		Type:          "Platinum Coverage",
		Price:         6499,
		OriginalPrice: 10000,
		Duration:      "3 Year",
		IsMostPopular: true,
		Features:      standardFeatures,
	},
}

// PlanCatalog returns all purchasable plans
func PlanCatalog() []Plan {
	return planCatalog
}

// FindPlan looks up a plan by its catalog ID
func FindPlan(id string) (*Plan, bool) {
	for i := range planCatalog {
		if planCatalog[i].ID == id {
			return &planCatalog[i], true
		}
	}
	return nil, false
}
