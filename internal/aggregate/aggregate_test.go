package aggregate

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

var now = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func tx(id string, cents int64, category string, date time.Time) core.Transaction {
	return core.Transaction{
		ID:       id,
		Amount:   core.Money{Cents: cents},
		Date:     date,
		Category: category,
	}
}

func TestAggregateEmpty(t *testing.T) {
	out := Aggregate(nil, now)

	for i, b := range out.Daily {
		if b.Amount.Cents != 0 {
			t.Fatalf("bucket %d not zero: %d", i, b.Amount.Cents)
		}
		if b.Label == "" {
			t.Fatalf("bucket %d missing weekday label", i)
		}
	}
	if out.Categories != nil {
		t.Fatalf("expected no categories, got %v", out.Categories)
	}
	if out.Summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", out.Summary)
	}
}

func TestAggregateBucketOrderAndWindow(t *testing.T) {
	out := Aggregate(nil, now)

	first := out.Daily[0].Day
	last := out.Daily[DailyWindow-1].Day
	if !core.SameCalendarDay(last, now) {
		t.Fatalf("last bucket should be today, got %v", last)
	}
	if !first.Equal(core.TruncateToDay(now).AddDate(0, 0, -6)) {
		t.Fatalf("first bucket should be six days back, got %v", first)
	}
	for i := 1; i < DailyWindow; i++ {
		if !out.Daily[i].Day.After(out.Daily[i-1].Day) {
			t.Fatal("buckets must be ordered oldest to newest")
		}
	}
}

func TestAggregateDailyMatchesByCalendarDay(t *testing.T) {
	// 23:55 six days ago and 00:05 today are more than six 24h periods
	// apart, yet both land inside the calendar window.
	edgeOld := core.TruncateToDay(now).AddDate(0, 0, -6).Add(-5 * time.Minute)   // outside
	insideOld := core.TruncateToDay(now).AddDate(0, 0, -6).Add(23 * time.Hour)   // inside, day 0
	insideNew := core.TruncateToDay(now).Add(5 * time.Minute)                    // inside, today
	txs := []core.Transaction{
		tx("a", 100, "Food", edgeOld),
		tx("b", 200, "Food", insideOld),
		tx("c", 300, "Food", insideNew),
	}

	out := Aggregate(txs, now)

	if got := out.Daily[0].Amount.Cents; got != 200 {
		t.Fatalf("oldest bucket: got %d want 200", got)
	}
	if got := out.Daily[DailyWindow-1].Amount.Cents; got != 300 {
		t.Fatalf("today bucket: got %d want 300", got)
	}
	var windowSum int64
	for _, b := range out.Daily {
		windowSum += b.Amount.Cents
	}
	if windowSum != 500 {
		t.Fatalf("window sum: got %d want 500", windowSum)
	}
	// The out-of-window transaction still counts toward totals.
	if out.Summary.TotalSpent.Cents != 600 {
		t.Fatalf("total spent: got %d want 600", out.Summary.TotalSpent.Cents)
	}
}

func TestAggregateSignConvention(t *testing.T) {
	// Worked example from the dashboard contract.
	txs := []core.Transaction{
		tx("a", 5000, "Food", now),
		tx("b", -100000, "Salary", now),
	}

	out := Aggregate(txs, now)

	if out.Summary.TotalSpent.Cents != 5000 {
		t.Fatalf("totalSpent: got %d", out.Summary.TotalSpent.Cents)
	}
	if out.Summary.TotalIncome.Cents != 100000 {
		t.Fatalf("totalIncome: got %d", out.Summary.TotalIncome.Cents)
	}
	if out.Summary.Balance.Cents != 95000 {
		t.Fatalf("balance: got %d", out.Summary.Balance.Cents)
	}
	if out.Summary.MonthSpent.Cents != 5000 {
		t.Fatalf("monthSpent: got %d", out.Summary.MonthSpent.Cents)
	}

	want := []CategoryTotal{
		{Name: "Salary", Amount: core.Money{Cents: -100000}},
		{Name: "Food", Amount: core.Money{Cents: 5000}},
	}
	if !reflect.DeepEqual(out.Categories, want) {
		t.Fatalf("categories: got %+v", out.Categories)
	}
}

func TestAggregateMonthBoundary(t *testing.T) {
	lastMonth := now.AddDate(0, -1, 0)
	txs := []core.Transaction{
		tx("a", 1000, "Food", now),
		tx("b", 2000, "Food", lastMonth),
		tx("c", -3000, "Salary", lastMonth),
	}

	out := Aggregate(txs, now)

	if out.Summary.MonthSpent.Cents != 1000 {
		t.Fatalf("monthSpent: got %d want 1000", out.Summary.MonthSpent.Cents)
	}
	if out.Summary.MonthIncome.Cents != 0 {
		t.Fatalf("monthIncome: got %d want 0", out.Summary.MonthIncome.Cents)
	}
	if out.Summary.TotalSpent.Cents != 3000 {
		t.Fatalf("totalSpent: got %d want 3000", out.Summary.TotalSpent.Cents)
	}
	if out.Summary.TotalIncome.Cents != 3000 {
		t.Fatalf("totalIncome: got %d want 3000", out.Summary.TotalIncome.Cents)
	}
}

func TestAggregateCategoryPartition(t *testing.T) {
	// Category totals partition the input: their signed sum equals
	// totalSpent - totalIncome.
	txs := []core.Transaction{
		tx("a", 5500, "Food", now),
		tx("b", 1200, "", now.AddDate(0, 0, -20)), // defaults to Other
		tx("c", -80000, "Salary", now.AddDate(0, -2, 0)),
		tx("d", 0, "Misc", now),
	}

	out := Aggregate(txs, now)

	var catSum int64
	for _, c := range out.Categories {
		catSum += c.Amount.Cents
	}
	signed := out.Summary.TotalSpent.Cents - out.Summary.TotalIncome.Cents
	if catSum != signed {
		t.Fatalf("partition broken: categories %d vs summary %d", catSum, signed)
	}

	found := false
	for _, c := range out.Categories {
		if c.Name == core.DefaultCategory {
			found = true
		}
	}
	if !found {
		t.Fatal("blank category should be bucketed under Other")
	}
}

func TestAggregateDeterminism(t *testing.T) {
	txs := make([]core.Transaction, 0, 20)
	for i := 0; i < 20; i++ {
		txs = append(txs, tx(fmt.Sprintf("t%d", i), int64(i*137-800), fmt.Sprintf("C%d", i%5), now.AddDate(0, 0, -i)))
	}

	a := Aggregate(txs, now)
	b := Aggregate(txs, now)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("aggregate must be deterministic for identical input")
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	txs := []core.Transaction{tx("a", 100, "Food", now)}
	before := txs[0]
	Aggregate(txs, now)
	if !reflect.DeepEqual(before, txs[0]) {
		t.Fatal("input transaction was mutated")
	}
}

func TestAggregateZeroDateFallsBackToCreatedAt(t *testing.T) {
	created := core.TruncateToDay(now)
	txs := []core.Transaction{{
		ID:        "a",
		Amount:    core.Money{Cents: 700},
		CreatedAt: created,
		Category:  "Food",
	}}

	out := Aggregate(txs, now)
	if out.Daily[DailyWindow-1].Amount.Cents != 700 {
		t.Fatal("creation timestamp should place the transaction in today's bucket")
	}
}

func TestRecent(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 10; i++ {
		txs = append(txs, tx(fmt.Sprintf("t%d", i), 100, "Food", now.AddDate(0, 0, -i)))
	}

	got := Recent(txs, RecentLimit)
	if len(got) != RecentLimit {
		t.Fatalf("got %d items, want %d", len(got), RecentLimit)
	}
	for i := 1; i < len(got); i++ {
		if got[i].EffectiveDate().After(got[i-1].EffectiveDate()) {
			t.Fatal("recent list must be newest first")
		}
	}
	if got[0].ID != "t0" {
		t.Fatalf("newest first: got %s", got[0].ID)
	}
	if len(txs) != 10 {
		t.Fatal("input must not shrink")
	}
}

func TestRecentStableOnTies(t *testing.T) {
	same := core.TruncateToDay(now)
	txs := []core.Transaction{
		tx("first", 1, "A", same),
		tx("second", 2, "B", same),
		tx("third", 3, "C", same),
	}
	got := Recent(txs, 3)
	if got[0].ID != "first" || got[1].ID != "second" || got[2].ID != "third" {
		t.Fatalf("tie order must match input order, got %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}
