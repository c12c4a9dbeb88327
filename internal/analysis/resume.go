package analysis

import (
	"context"
	"regexp"
	"strings"

	"bizops-backend/internal/llm"
)

const (
	defaultEducation      = "Not specified"
	defaultRecommendation = "Manual review required"
)

var (
	recommendationLabels = map[string]string{
		"reject":           "Reject",
		"consider":         "Consider",
		"interview":        "Interview",
		"strong candidate": "Strong Candidate",
	}
	yearsPattern = regexp.MustCompile(`(\d+\.?\d*)\s*\+?\s*(?i:years?|yrs?)\b`)
)

func defaultResumeScreening() ResumeScreeningResult {
	return ResumeScreeningResult{
		KeySkills:          []string{},
		Education:          defaultEducation,
		RelevantExperience: []string{},
		Strengths:          []string{},
		Gaps:               []string{},
		Recommendation:     defaultRecommendation,
	}
}

// ScreenResume assesses plain resume text against a position: skills,
// experience, education, a 0-100 match score and a hiring recommendation.
func (s *Service) ScreenResume(ctx context.Context, req ResumeScreeningRequest) (ResumeScreeningResult, error) {
	meta := ResumeMetadata{
		Position:       strings.TrimSpace(req.Position),
		ResumeFilename: strings.TrimSpace(req.ResumeFilename),
		AnalyzedAt:     s.now().UTC(),
	}
	fallback := func() ResumeScreeningResult {
		out := defaultResumeScreening()
		out.Metadata = meta
		return out
	}
	resume := strings.TrimSpace(req.ResumeText)
	switch {
	case meta.Position == "":
		return fallback(), s.reject(KindResumeScreening, invalid("position is required"))
	case resume == "":
		return fallback(), s.reject(KindResumeScreening, invalid("resume_text is required"))
	}

	return run(ctx, s, KindResumeScreening, fallback, func(ctx context.Context, c *call) ResumeScreeningResult {
		spec, err := resumePrompt(meta.Position, resume)
		p := c.complete(ctx, spec, err)

		out := fallback()
		out.KeySkills = p.Strings("key_skills", out.KeySkills)
		if years, ok := yearsValue(p.Fields["years_experience"]); ok {
			out.YearsExperience = years
		}
		out.Education = p.String("education", out.Education)
		out.RelevantExperience = p.Strings("relevant_experience", out.RelevantExperience)
		if score, ok := llm.ToFloat(p.Fields["skills_match_score"]); ok {
			out.SkillsMatchScore = clampScore(score)
		}
		out.Strengths = p.Strings("strengths", out.Strengths)
		out.Gaps = p.Strings("gaps", out.Gaps)
		if rec, ok := recommendationLabels[strings.ToLower(p.String("recommendation", ""))]; ok {
			out.Recommendation = rec
		}
		return out
	}), nil
}

// yearsValue reads a non-negative experience figure from a number or text such as "7+ years".
func yearsValue(v any) (float64, bool) {
	f, ok := llm.ToFloat(v)
	if !ok {
		s, isText := v.(string)
		if !isText {
			return 0, false
		}
		m := yearsPattern.FindStringSubmatch(s)
		if m == nil {
			return 0, false
		}
		f, ok = llm.ToFloat(m[1])
	}
	return f, ok && f >= 0
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
