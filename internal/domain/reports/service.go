package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
)

const (
	defaultRecentLimit   = 50
	maxRecentLimit       = 500
	defaultDailyTransfer = 30
)

// Service provides report generation operations.
type Service struct {
	repo        Repository
	territories Territories
	clock       clock.Clock
}

// NewService creates a new reports service.
func NewService(repo Repository, territories Territories, clk clock.Clock) *Service {
	return &Service{repo: repo, territories: territories, clock: clk}
}

// StockSummary counts In Stock vehicles of the given branches.
func (s *Service) StockSummary(ctx context.Context, branchIDs []string) (*StockSummary, error) {
	ids := cleanIDs(branchIDs)
	lines, err := s.repo.StockCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get stock summary: %w", err)
	}

	out := &StockSummary{BranchIDs: ids, Lines: lines}
	for _, l := range lines {
		out.Total += l.Count
	}
	return out, nil
}

// TerritoryStock counts In Stock vehicles across a head branch and its sub-branches.
func (s *Service) TerritoryStock(ctx context.Context, headID string) (*StockSummary, error) {
	ids, err := s.territories.TerritoryIDs(ctx, strings.TrimSpace(headID))
	if err != nil {
		return nil, err
	}
	return s.StockSummary(ctx, ids)
}

// TransferSummary groups OUTWARD rows of a branch over a date range.
func (s *Service) TransferSummary(ctx context.Context, fromBranchID string, start, end time.Time) ([]TransferLine, error) {
	fromBranchID = strings.TrimSpace(fromBranchID)
	if fromBranchID == "" {
		return nil, apperror.NewValidation("branch is required")
	}
	start, end, err := s.dateRange(start, end)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.Transfers(ctx, fromBranchID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get transfer summary: %w", err)
	}
	return lines, nil
}

// DailyTransferSummary lists recent transfer volume per day and route.
func (s *Service) DailyTransferSummary(ctx context.Context, limit int) ([]DailyTransferLine, error) {
	if limit <= 0 {
		limit = defaultDailyTransfer
	}
	lines, err := s.repo.DailyTransfers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get daily transfers: %w", err)
	}
	return lines, nil
}

// OEMInwardSummary groups manufacturer receipts at a branch over a date range.
func (s *Service) OEMInwardSummary(ctx context.Context, branchID string, start, end time.Time) ([]InwardLine, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return nil, apperror.NewValidation("branch is required")
	}
	start, end, err := s.dateRange(start, end)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.OEMInward(ctx, branchID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get oem inward summary: %w", err)
	}
	return lines, nil
}

// SalesReport groups Sale rows by branch, busiest branch first.
func (s *Service) SalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	start, end, err := s.dateRange(start, end)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.Sales(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("get sales report: %w", err)
	}

	byBranch := make(map[string]*BranchSales)
	var order []string
	for _, l := range lines {
		b, ok := byBranch[l.BranchID]
		if !ok {
			b = &BranchSales{BranchID: l.BranchID}
			byBranch[l.BranchID] = b
			order = append(order, l.BranchID)
		}
		b.Lines = append(b.Lines, l)
		b.Total += l.Quantity
	}

	report := &SalesReport{Start: start, End: end, Branches: make([]BranchSales, 0, len(order))}
	for _, id := range order {
		report.Branches = append(report.Branches, *byBranch[id])
		report.GrandTotal += byBranch[id].Total
	}
	sort.SliceStable(report.Branches, func(i, j int) bool {
		if report.Branches[i].Total != report.Branches[j].Total {
			return report.Branches[i].Total > report.Branches[j].Total
		}
		return report.Branches[i].BranchID < report.Branches[j].BranchID
	})
	return report, nil
}

// DailySummary counts the day's sales and outward transfers per branch.
// A zero date means today.
func (s *Service) DailySummary(ctx context.Context, date time.Time) ([]DailyCount, error) {
	if date.IsZero() {
		date = clock.Today(s.clock)
	} else {
		date = clock.DateOf(date, s.clock.Location())
	}
	counts, err := s.repo.DailyCounts(ctx, date, []movement.Type{movement.TypeSale, movement.TypeOutwardTransfer})
	if err != nil {
		return nil, fmt.Errorf("get daily summary: %w", err)
	}
	return counts, nil
}

// RecentTransactions lists the newest log rows touching a branch.
func (s *Service) RecentTransactions(ctx context.Context, branchID string, limit int) ([]movement.Transaction, error) {
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return nil, apperror.NewValidation("branch is required")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	rows, err := s.repo.Recent(ctx, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent transactions: %w", err)
	}
	return rows, nil
}

// Aging reports how long each In Stock vehicle has been at the dealership,
// counted in whole days in the business time zone. An empty branch covers
// every branch.
func (s *Service) Aging(ctx context.Context, branchID string) (*AgingReport, error) {
	branchID = strings.TrimSpace(branchID)
	vs, err := s.repo.InStock(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("get aging report: %w", err)
	}

	today := clock.Today(s.clock)
	loc := s.clock.Location()
	counts := make(map[string]int, len(Buckets))
	report := &AgingReport{AsOf: today, BranchID: branchID, Vehicles: vs}
	for i := range report.Vehicles {
		v := &report.Vehicles[i]
		v.DaysOld = DaysBetween(clock.DateOf(v.DateReceived, loc), today)
		v.Bucket = BucketFor(v.DaysOld)
		counts[v.Bucket]++
	}
	sort.SliceStable(report.Vehicles, func(i, j int) bool {
		return report.Vehicles[i].DaysOld > report.Vehicles[j].DaysOld
	})

	report.Totals = make([]BucketTotal, 0, len(Buckets))
	for _, b := range Buckets {
		report.Totals = append(report.Totals, BucketTotal{Bucket: b, Count: counts[b]})
	}
	report.Critical = counts[BucketOver90]
	return report, nil
}

// DaysBetween returns the whole days from one date to a later one, never negative.
func DaysBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// dateRange normalizes an inclusive date range in the business time zone.
// A zero end means today and a zero start means the start of end's month.
func (s *Service) dateRange(start, end time.Time) (time.Time, time.Time, error) {
	loc := s.clock.Location()
	if end.IsZero() {
		end = clock.Today(s.clock)
	} else {
		end = clock.DateOf(end, loc)
	}
	if start.IsZero() {
		start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)
	} else {
		start = clock.DateOf(start, loc)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperror.NewValidation("start date must not be after end date")
	}
	return start, end, nil
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
