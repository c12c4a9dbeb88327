package analysis

import (
	"context"
	"strings"
)

const defaultEstimatedHours = 2.0

var complexityLevels = map[string]bool{"simple": true, "moderate": true, "complex": true}

func defaultTaskTimeline() TaskTimelineResult {
	return TaskTimelineResult{
		EstimatedTime:       defaultEstimatedHours,
		TaskComplexity:      "moderate",
		RecommendedSkills:   []string{"general"},
		PotentialChallenges: []string{"No specific challenges identified"},
	}
}

// PredictTaskTimeline estimates effort, complexity, skills and risks for a task.
func (s *Service) PredictTaskTimeline(ctx context.Context, req TaskTimelineRequest) (TaskTimelineResult, error) {
	desc := strings.TrimSpace(req.TaskDescription)
	if desc == "" {
		return defaultTaskTimeline(), s.reject(KindTaskTimeline, invalid("task_description is required"))
	}
	return run(ctx, s, KindTaskTimeline, defaultTaskTimeline, func(ctx context.Context, c *call) TaskTimelineResult {
		spec, err := taskTimelinePrompt(desc, req.ClientHistory)
		p := c.complete(ctx, spec, err)

		out := defaultTaskTimeline()
		if p.OK {
			if h, ok := hoursValue(p.Fields["estimated_time"]); ok {
				out.EstimatedTime = h
			}
		}
		if level := strings.ToLower(p.String("task_complexity", "")); complexityLevels[level] {
			out.TaskComplexity = level
		}
		out.RecommendedSkills = orDefault(p.Strings("recommended_skills", nil), out.RecommendedSkills)
		out.PotentialChallenges = orDefault(p.Strings("potential_challenges", nil), out.PotentialChallenges)
		return out
	}), nil
}
