package analysis

import (
	"context"

	"bizops-backend/internal/analysis/stats"
)

func defaultFinancialSummary() stats.FinancialSummary {
	return stats.FinancialSummary{RecentTrend: stats.TrendUnknown}
}

func defaultFinancialCommentary(summary stats.FinancialSummary) FinancialResult {
	return FinancialResult{
		SummaryMetrics: summary,
		FinancialHealth: HealthAssessment{
			Status:      "unknown",
			Explanation: "Analysis unavailable",
		},
		KeyInsights:     []string{},
		Recommendations: []FinancialRecommendation{},
		Prediction:      "No prediction available",
	}
}

// AnalyzeFinancialData computes income, expense and trend metrics locally and
// asks the model for a health assessment, insights and recommendations.
func (s *Service) AnalyzeFinancialData(ctx context.Context, req FinancialRequest) (FinancialResult, error) {
	fallback := func() FinancialResult { return defaultFinancialCommentary(defaultFinancialSummary()) }
	if len(req.FinancialRecords) == 0 {
		return fallback(), s.reject(KindFinancialData, invalid("financial_records must not be empty"))
	}
	return run(ctx, s, KindFinancialData, fallback, func(ctx context.Context, c *call) FinancialResult {
		summary := stats.FinancialMetrics(req.FinancialRecords)
		spec, err := financialPrompt(summary)
		p := c.complete(ctx, spec, err)

		out := defaultFinancialCommentary(summary)
		if health, ok := p.Object("financial_health"); ok {
			o := object(health)
			out.FinancialHealth.Status = o.String("status", out.FinancialHealth.Status)
			out.FinancialHealth.Explanation = o.String("explanation", out.FinancialHealth.Explanation)
		} else {
			out.FinancialHealth.Status = p.String("financial_health", out.FinancialHealth.Status)
		}
		out.KeyInsights = p.Strings("key_insights", out.KeyInsights)
		for _, kv := range pairs(p, "recommendations", []string{"area"}, []string{"action", "recommendation", "suggestion"}, generalArea) {
			out.Recommendations = append(out.Recommendations, FinancialRecommendation{Area: kv[0], Action: kv[1]})
		}
		out.Prediction = p.String("prediction", out.Prediction)
		return out
	}), nil
}

func defaultCost(rate float64) stats.CostSummary {
	return stats.CostSummary{
		HourlyRate:       rate,
		EmployeeData:     []stats.EmployeeCost{},
		RoleDistribution: map[string]stats.RoleCost{},
		ClientCosts:      []stats.ClientCost{},
	}
}

// AnalyzeCosts breaks labour cost down by employee, role and client. No model
// call is made. A request rate of zero uses the configured hourly rate.
func (s *Service) AnalyzeCosts(ctx context.Context, req CostRequest) (stats.CostSummary, error) {
	rate := req.HourlyRate
	if rate <= 0 {
		rate = s.hourlyRate
	}
	if len(req.Employees) == 0 {
		return defaultCost(rate), s.reject(KindCost, invalid("employees must not be empty"))
	}
	fallback := func() stats.CostSummary { return defaultCost(rate) }
	return run(ctx, s, KindCost, fallback, func(ctx context.Context, c *call) stats.CostSummary {
		return stats.CostMetrics(req.Employees, req.Attendance, req.Tasks, rate)
	}), nil
}
