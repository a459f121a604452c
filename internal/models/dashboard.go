package models

// PolicyDistribution counts policies per duration bucket
type PolicyDistribution struct {
	OneYear   int `json:"oneYear"`
	TwoYear   int `json:"twoYear"`
	ThreeYear int `json:"threeYear"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	ActivePolicies     int                `json:"activePolicies"`
	TotalRevenue       float64            `json:"totalRevenue"`
	ExpiringSoon       int                `json:"expiringSoon"`
	RecentPolicies     []*Policy          `json:"recentPolicies"`
	PolicyDistribution PolicyDistribution `json:"policyDistribution"`
}
