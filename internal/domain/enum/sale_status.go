package enum

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusDeleted   SaleStatus = "deleted"
)

func (s SaleStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the known values
func (s SaleStatus) IsValid() bool {
	return s == SaleStatusCompleted || s == SaleStatusDeleted
}
