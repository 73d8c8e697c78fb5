package dto

// ImportRequest carries a raw S08 feed.
type ImportRequest struct {
	BranchID     string `json:"branchId" binding:"required"`
	Source       string `json:"source"`
	Raw          string `json:"raw" binding:"required"`
	DateReceived string `json:"dateReceived"`
	Remarks      string `json:"remarks"`
}
