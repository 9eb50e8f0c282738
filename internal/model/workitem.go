package model

// WorkItem is one unit of incoming order text pulled from the mail
// collaborator. Ephemeral: consumed into a Prediction within the same
// polling cycle, never persisted as-is.
type WorkItem struct {
	Description string
	Quantity    string
	SourceID    string
	WorkOrderID string
	EmployeeID  string
	FileName    string
	Audio       []byte
}
