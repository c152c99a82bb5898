package sheets

import (
	"context"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

// OverviewRow is one dashboard snapshot appended to the export sheet.
type OverviewRow struct {
	FetchedAt    time.Time
	TotalSpent   core.Money
	TotalIncome  core.Money
	Balance      core.Money
	MonthSpent   core.Money
	MonthIncome  core.Money
	Transactions int
}

// OverviewWriter appends dashboard snapshots to an external sheet.
type OverviewWriter interface {
	// AppendOverview writes one snapshot row, returning a row reference.
	AppendOverview(ctx context.Context, row OverviewRow) (rowRef string, err error)
}
