package metrics

// Status is the binary outbound-connectivity reading.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Sample is one cycle's resource-utilization and connectivity reading.
// Percentages are rounded to two decimals and clamped to [0,100].
type Sample struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
	Connectivity  Status
}
