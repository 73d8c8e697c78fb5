package dto

// DateRangeRequest is an inclusive YYYY-MM-DD range.
type DateRangeRequest struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// StockRequest selects branches for a stock summary. No branch means all.
type StockRequest struct {
	BranchIDs []string `form:"branch"`
	Format    string   `form:"format" binding:"omitempty,oneof=json xlsx"`
}

// AgingRequest selects one branch, or every branch when empty.
type AgingRequest struct {
	BranchID string `form:"branch"`
	Format   string `form:"format" binding:"omitempty,oneof=json xlsx"`
}
