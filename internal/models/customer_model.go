package models

// Customer is owned by the customer service; this is the read model the
// directory client returns.
type Customer struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"` // active, passive, cancelled
	Deleted     bool   `json:"deleted"`
}

const (
	CustomerStatusActive    = "active"
	CustomerStatusPassive   = "passive"
	CustomerStatusCancelled = "cancelled"
	CustomerStatusUnknown   = "unknown"
)
