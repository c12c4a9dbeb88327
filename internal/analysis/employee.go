package analysis

import (
	"context"
	"strings"

	"bizops-backend/internal/analysis/stats"
)

func defaultEmployeeCommentary(m EmployeeMetrics) EmployeePerformanceResult {
	return EmployeePerformanceResult{
		Metrics: m,
		PerformanceAssessment: PerformanceAssessment{
			Rating:      "unknown",
			Explanation: "Analysis unavailable",
		},
		Strengths:        []string{},
		ImprovementAreas: []string{},
		Recommendations:  []string{},
	}
}

// GeneratePerformanceInsights computes attendance and task metrics for one
// employee and asks the model to assess them.
func (s *Service) GeneratePerformanceInsights(ctx context.Context, req EmployeePerformanceRequest) (EmployeePerformanceResult, error) {
	fallback := func() EmployeePerformanceResult { return defaultEmployeeCommentary(EmployeeMetrics{}) }
	attendance, tasks := recordsFor(strings.TrimSpace(req.EmployeeID), req.AttendanceData, req.TaskData)
	if len(attendance) == 0 && len(tasks) == 0 {
		return fallback(), s.reject(KindEmployeePerformance, invalid("attendance_data or task_data is required"))
	}
	return run(ctx, s, KindEmployeePerformance, fallback, func(ctx context.Context, c *call) EmployeePerformanceResult {
		att := stats.AttendanceMetrics(attendance)
		work := stats.TaskMetrics(tasks)
		metrics := EmployeeMetrics{
			AvgHoursWorked:     att.AvgHoursWorked,
			PunctualityRate:    att.PunctualityRate,
			TaskCompletionRate: work.CompletionRate,
			AvgTaskTime:        work.AvgTaskTime,
			EfficiencyRate:     work.EfficiencyRate,
		}
		spec, err := employeePrompt(metrics)
		p := c.complete(ctx, spec, err)

		out := defaultEmployeeCommentary(metrics)
		if assessment, ok := p.Object("performance_assessment"); ok {
			o := object(assessment)
			out.PerformanceAssessment.Rating = o.String("rating", out.PerformanceAssessment.Rating)
			out.PerformanceAssessment.Explanation = o.String("explanation", out.PerformanceAssessment.Explanation)
		}
		out.Strengths = p.Strings("strengths", out.Strengths)
		out.ImprovementAreas = p.Strings("improvement_areas", out.ImprovementAreas)
		out.Recommendations = p.Strings("recommendations", out.Recommendations)
		return out
	}), nil
}

// recordsFor keeps the records belonging to employeeID. Records without an
// owner are kept. An empty employeeID keeps everything.
func recordsFor(employeeID string, attendance []stats.AttendanceRecord, tasks []stats.TaskRecord) ([]stats.AttendanceRecord, []stats.TaskRecord) {
	if employeeID == "" {
		return attendance, tasks
	}
	var att []stats.AttendanceRecord
	for _, r := range attendance {
		if r.UserID == "" || r.UserID == employeeID {
			att = append(att, r)
		}
	}
	var work []stats.TaskRecord
	for _, t := range tasks {
		if t.AssignedTo == "" || t.AssignedTo == employeeID {
			work = append(work, t)
		}
	}
	return att, work
}
