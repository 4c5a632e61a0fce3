package delivery

// Envelope is the flat JSON payload posted to the ingest endpoint: one
// sample plus the cached environment metadata and agent identity. Optional
// fields are omitted when absent, never sent as null.
type Envelope struct {
	CPU                  float64 `json:"cpu"`
	Memory               float64 `json:"memory"`
	Disk                 float64 `json:"disk"`
	Status               string  `json:"status"`
	AgentVersion         string  `json:"agent_version"`
	CloudProvider        string  `json:"cloud_provider"`
	InstanceType         string  `json:"instance_type,omitempty"`
	CloudDetectionSource string  `json:"cloud_detection_source"`
	OSType               string  `json:"os_type,omitempty"`
	OSName               string  `json:"os_name,omitempty"`
	OSVersion            string  `json:"os_version,omitempty"`
}
