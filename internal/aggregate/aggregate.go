// Package aggregate turns a raw list of transactions into dashboard-ready
// figures: a 7-day spend series, category totals, and period summaries.
//
// Everything here is pure: inputs are never mutated, results are computed
// fresh per call, and identical input always yields identical output.
package aggregate

import (
	"sort"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

// DailyWindow is the number of calendar days in the daily spend series.
const DailyWindow = 7

// RecentLimit is how many transactions the recent-activity view shows.
const RecentLimit = 6

type (
	// DailyBucket holds the signed sum of one calendar day.
	DailyBucket struct {
		Day    time.Time
		Label  string // short weekday name, e.g. "Mon"
		Amount core.Money
	}

	// CategoryTotal is the signed sum of one category over the whole input.
	CategoryTotal struct {
		Name   string
		Amount core.Money
	}

	// Summary holds lifetime and month-to-date totals. Spend and income are
	// both reported as magnitudes; Balance is income minus spend.
	Summary struct {
		TotalSpent   core.Money
		TotalIncome  core.Money
		Balance      core.Money
		MonthSpent   core.Money
		MonthIncome  core.Money
		MonthBalance core.Money
	}

	// Overview is the full aggregation result for one input set.
	Overview struct {
		Daily      [DailyWindow]DailyBucket
		Categories []CategoryTotal
		Summary    Summary
	}
)

// Aggregate computes the dashboard overview for the given transactions.
//
// The daily series covers the 7 calendar days ending at now inclusive,
// oldest first, matched by calendar-day equality in now's location.
// Transactions outside the window still count toward category totals and
// the lifetime summary. Month figures use now's calendar month and year.
// Empty input yields zero buckets and a zero summary, never an error.
func Aggregate(txs []core.Transaction, now time.Time) Overview {
	var out Overview

	today := core.TruncateToDay(now)
	for i := 0; i < DailyWindow; i++ {
		day := today.AddDate(0, 0, i-(DailyWindow-1))
		out.Daily[i] = DailyBucket{
			Day:   day,
			Label: day.Weekday().String()[:3],
		}
	}

	byCategory := make(map[string]int64)
	for _, tx := range txs {
		eff := tx.EffectiveDate()

		for i := range out.Daily {
			if core.SameCalendarDay(eff, out.Daily[i].Day) {
				out.Daily[i].Amount = out.Daily[i].Amount.Add(tx.Amount)
				break
			}
		}

		byCategory[tx.CategoryLabel()] += tx.Amount.Cents

		inMonth := core.SameCalendarMonth(eff, now)
		if tx.IsExpense() {
			out.Summary.TotalSpent = out.Summary.TotalSpent.Add(tx.Amount)
			if inMonth {
				out.Summary.MonthSpent = out.Summary.MonthSpent.Add(tx.Amount)
			}
		} else {
			out.Summary.TotalIncome = out.Summary.TotalIncome.Add(tx.Amount.Abs())
			if inMonth {
				out.Summary.MonthIncome = out.Summary.MonthIncome.Add(tx.Amount.Abs())
			}
		}
	}

	out.Summary.Balance = out.Summary.TotalIncome.Sub(out.Summary.TotalSpent)
	out.Summary.MonthBalance = out.Summary.MonthIncome.Sub(out.Summary.MonthSpent)

	if len(byCategory) > 0 {
		out.Categories = make([]CategoryTotal, 0, len(byCategory))
		for name, cents := range byCategory {
			out.Categories = append(out.Categories, CategoryTotal{
				Name:   name,
				Amount: core.Money{Cents: cents},
			})
		}
		// Deterministic order: largest magnitude first, name breaks ties.
		sort.Slice(out.Categories, func(i, j int) bool {
			ai := out.Categories[i].Amount.Abs().Cents
			aj := out.Categories[j].Amount.Abs().Cents
			if ai != aj {
				return ai > aj
			}
			return out.Categories[i].Name < out.Categories[j].Name
		})
	}

	return out
}

// Recent returns a copy of the n most recent transactions by effective
// date, newest first. The sort is stable so equal dates keep input order.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate().After(out[j].EffectiveDate())
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
