// Package stats computes numeric summaries over attendance, task and
// financial records. Every function is pure and total: empty or partial
// input yields zeros, never an error.
package stats

import (
	"sort"
	"strings"
	"time"
)

// LateAfter is the latest on-time login, as a time of day.
const LateAfter = 9*time.Hour + 15*time.Minute

// Task statuses recognised by TaskMetrics.
const (
	StatusCompleted = "completed"
)

// Financial record types.
const (
	RecordIncome  = "income"
	RecordExpense = "expense"
)

// Trend labels.
const (
	TrendPositive = "positive"
	TrendNegative = "negative"
	TrendStable   = "stable"
	TrendUnknown  = "unknown"

	trendThreshold = 5.0
	trendWindow    = 3
)

// AttendanceRecord is one workday for one employee.
type AttendanceRecord struct {
	UserID     string     `json:"user_id,omitempty"`
	WorkDate   *Timestamp `json:"work_date,omitempty"`
	LoginTime  *Timestamp `json:"login_time,omitempty"`
	LogoutTime *Timestamp `json:"logout_time,omitempty"`
}

// TaskRecord is one task with optional time tracking, in hours.
type TaskRecord struct {
	TaskID        string     `json:"task_id,omitempty"`
	Title         string     `json:"title,omitempty"`
	Status        string     `json:"status"`
	AssignedTo    string     `json:"assigned_to,omitempty"`
	ClientID      string     `json:"client_id,omitempty"`
	ClientName    string     `json:"client_name,omitempty"`
	EstimatedTime *float64   `json:"estimated_time,omitempty"`
	ActualTime    *float64   `json:"actual_time,omitempty"`
	EndTime       *Timestamp `json:"end_time,omitempty"`
}

// FinancialRecord is one income or expense entry.
type FinancialRecord struct {
	RecordType  string     `json:"record_type"`
	Amount      float64    `json:"amount"`
	RecordDate  *Timestamp `json:"record_date,omitempty"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`
}

// AttendanceSummary holds attendance-derived metrics.
type AttendanceSummary struct {
	AvgHoursWorked  float64 `json:"avg_hours_worked"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

// TaskSummary holds task-derived metrics.
type TaskSummary struct {
	CompletionRate float64 `json:"task_completion_rate"`
	AvgTaskTime    float64 `json:"avg_task_time"`
	EfficiencyRate float64 `json:"efficiency_rate"`
}

// MonthlyFinance aggregates one calendar month. ProfitGrowth is nil when undefined.
type MonthlyFinance struct {
	Month        string   `json:"month"`
	Income       float64  `json:"income"`
	Expenses     float64  `json:"expenses"`
	Profit       float64  `json:"profit"`
	ProfitGrowth *float64 `json:"profit_growth,omitempty"`
}

// FinancialSummary holds totals and the monthly trend.
type FinancialSummary struct {
	TotalIncome   float64          `json:"total_income"`
	TotalExpenses float64          `json:"total_expenses"`
	NetProfit     float64          `json:"net_profit"`
	ProfitMargin  float64          `json:"profit_margin"`
	RecentTrend   string           `json:"recent_trend"`
	Monthly       []MonthlyFinance `json:"monthly,omitempty"`
}

// AttendanceMetrics computes mean hours per complete record and the on-time share of logins.
func AttendanceMetrics(records []AttendanceRecord) AttendanceSummary {
	var hoursTotal float64
	var complete, logins, late int
	for _, r := range records {
		if valid(r.LoginTime) {
			logins++
			if timeOfDay(r.LoginTime.Time) > LateAfter {
				late++
			}
			if valid(r.LogoutTime) {
				hoursTotal += r.LogoutTime.Sub(r.LoginTime.Time).Hours()
				complete++
			}
		}
	}

	var out AttendanceSummary
	if complete > 0 {
		out.AvgHoursWorked = hoursTotal / float64(complete)
	}
	if logins > 0 {
		out.PunctualityRate = 100 * (1 - float64(late)/float64(logins))
	}
	return out
}

// TaskMetrics computes the completion rate over all tasks, plus mean actual
// time and efficiency over completed tasks carrying both estimates.
// Efficiency is the mean of per-task estimated/actual ratios.
func TaskMetrics(records []TaskRecord) TaskSummary {
	var out TaskSummary
	if len(records) == 0 {
		return out
	}
	var completed, timed int
	var actualTotal, ratioTotal float64
	for _, r := range records {
		if !isCompleted(r.Status) {
			continue
		}
		completed++
		if r.EstimatedTime == nil || r.ActualTime == nil || *r.ActualTime <= 0 {
			continue
		}
		timed++
		actualTotal += *r.ActualTime
		ratioTotal += *r.EstimatedTime / *r.ActualTime
	}
	out.CompletionRate = 100 * float64(completed) / float64(len(records))
	if timed > 0 {
		out.AvgTaskTime = actualTotal / float64(timed)
		out.EfficiencyRate = 100 * ratioTotal / float64(timed)
	}
	return out
}

// FinancialMetrics sums income and expenses, groups dated records by
// calendar month and derives month-over-month profit growth.
func FinancialMetrics(records []FinancialRecord) FinancialSummary {
	out := FinancialSummary{RecentTrend: TrendStable}
	byMonth := make(map[string]*MonthlyFinance)
	for _, r := range records {
		kind := strings.ToLower(strings.TrimSpace(r.RecordType))
		switch kind {
		case RecordIncome:
			out.TotalIncome += r.Amount
		case RecordExpense:
			out.TotalExpenses += r.Amount
		default:
			continue
		}
		if !valid(r.RecordDate) {
			continue
		}
		key := r.RecordDate.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyFinance{Month: key}
			byMonth[key] = m
		}
		if kind == RecordIncome {
			m.Income += r.Amount
		} else {
			m.Expenses += r.Amount
		}
	}

	out.NetProfit = out.TotalIncome - out.TotalExpenses
	if out.TotalIncome > 0 {
		out.ProfitMargin = 100 * out.NetProfit / out.TotalIncome
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		m := byMonth[k]
		m.Profit = m.Income - m.Expenses
		if i > 0 {
			prev := out.Monthly[i-1].Profit
			if prev != 0 {
				g := 100 * (m.Profit - prev) / prev
				m.ProfitGrowth = &g
			}
		}
		out.Monthly = append(out.Monthly, *m)
	}
	out.RecentTrend = recentTrend(out.Monthly)
	return out
}

// recentTrend labels the mean of the defined growth values in the last three months.
func recentTrend(months []MonthlyFinance) string {
	start := len(months) - trendWindow
	if start < 0 {
		start = 0
	}
	var sum float64
	var n int
	for _, m := range months[start:] {
		if m.ProfitGrowth != nil {
			sum += *m.ProfitGrowth
			n++
		}
	}
	if n == 0 {
		return TrendStable
	}
	mean := sum / float64(n)
	switch {
	case mean > trendThreshold:
		return TrendPositive
	case mean < -trendThreshold:
		return TrendNegative
	default:
		return TrendStable
	}
}

func isCompleted(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusCompleted)
}

func timeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}
