package model

// Prediction is the outcome of matching one work item against the catalog.
// Confidence is a 0-100 integer, not a calibrated probability: a confirmed
// hit is always 100, approximate hits are a monotonic transform of the
// textual similarity score, and a miss is 0.
type Prediction struct {
	Description        string `json:"description"`
	PredictedCode      string `json:"predictedCode"`
	CatalogDescription string `json:"catalogDescription"`
	Quantity           string `json:"quantity"`
	ImageBase64        string `json:"imageBase64,omitempty"`
	Confidence         int    `json:"confidence"`
	ArticleID          string `json:"articleId,omitempty"`
	SourceID           string `json:"sourceId"`
	WorkOrderID        string `json:"workOrderId,omitempty"`
	EmployeeID         string `json:"employeeId,omitempty"`
	AudioBase64        string `json:"audioBase64,omitempty"`
	FileName           string `json:"fileName,omitempty"`
}
