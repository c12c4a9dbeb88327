package analysis

import (
	"context"
	"strings"

	"bizops-backend/internal/llm"
)

const (
	defaultSegment    = "General"
	defaultTimePeriod = "last 3 months"
	defaultTone       = "professional"
	generalArea       = "general"
)

func defaultMarketing() MarketingResult {
	return MarketingResult{
		PerformanceAnalysis: PerformanceAnalysis{
			Strengths:  []string{},
			Weaknesses: []string{},
		},
		TrendIdentification:     []string{"No trends identified"},
		OptimizationSuggestions: []OptimizationSuggestion{},
	}
}

// GenerateMarketingInsights reviews campaign metrics for a market segment.
func (s *Service) GenerateMarketingInsights(ctx context.Context, req MarketingRequest) (MarketingResult, error) {
	if len(req.CampaignData) == 0 {
		return defaultMarketing(), s.reject(KindMarketingInsights, invalid("campaign_data is required"))
	}
	segment := strings.TrimSpace(req.MarketSegment)
	if segment == "" {
		segment = defaultSegment
	}
	return run(ctx, s, KindMarketingInsights, defaultMarketing, func(ctx context.Context, c *call) MarketingResult {
		spec, err := marketingPrompt(req.CampaignData, segment)
		p := c.complete(ctx, spec, err)

		out := defaultMarketing()
		if perf, ok := p.Object("performance_analysis"); ok {
			o := object(perf)
			out.PerformanceAnalysis.Strengths = o.Strings("strengths", out.PerformanceAnalysis.Strengths)
			out.PerformanceAnalysis.Weaknesses = o.Strings("weaknesses", out.PerformanceAnalysis.Weaknesses)
		}
		out.TrendIdentification = orDefault(p.Strings("trend_identification", nil), out.TrendIdentification)
		for _, kv := range pairs(p, "optimization_suggestions", []string{"area"}, []string{"suggestion", "action", "recommendation"}, generalArea) {
			out.OptimizationSuggestions = append(out.OptimizationSuggestions, OptimizationSuggestion{Area: kv[0], Suggestion: kv[1]})
		}
		return out
	}), nil
}

func defaultMarketTrends() MarketTrendsResult {
	return MarketTrendsResult{
		EmergingTrends:  []string{},
		Opportunities:   []Topic{},
		Challenges:      []Topic{},
		Recommendations: []string{},
		Metadata:        TrendsMetadata{Keywords: []string{}},
	}
}

// AnalyzeMarketTrends scans an industry for trends, opportunities and threats.
func (s *Service) AnalyzeMarketTrends(ctx context.Context, req MarketTrendsRequest) (MarketTrendsResult, error) {
	industry := strings.TrimSpace(req.Industry)
	if industry == "" {
		return defaultMarketTrends(), s.reject(KindMarketTrends, invalid("industry is required"))
	}
	meta := TrendsMetadata{
		Industry:    industry,
		Keywords:    trimAll(req.Keywords),
		TimePeriod:  strings.TrimSpace(req.TimePeriod),
		GeneratedAt: s.now().UTC(),
	}
	if meta.TimePeriod == "" {
		meta.TimePeriod = defaultTimePeriod
	}
	fallback := func() MarketTrendsResult {
		out := defaultMarketTrends()
		out.Metadata = meta
		return out
	}
	return run(ctx, s, KindMarketTrends, fallback, func(ctx context.Context, c *call) MarketTrendsResult {
		spec, err := marketTrendsPrompt(meta.Industry, meta.Keywords, meta.TimePeriod)
		p := c.complete(ctx, spec, err)

		out := fallback()
		out.EmergingTrends = p.Strings("emerging_trends", out.EmergingTrends)
		out.Opportunities = topics(p, "opportunities")
		out.Challenges = topics(p, "challenges")
		out.Recommendations = p.Strings("recommendations", out.Recommendations)
		return out
	}), nil
}

// topics reads a list of {title, description} objects. Plain strings become titles.
func topics(p llm.Payload, field string) []Topic {
	out := []Topic{}
	items, ok := p.List(field)
	if !ok {
		return out
	}
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			o := object(v)
			t := Topic{
				Title:       firstString(o, "title", "name"),
				Description: firstString(o, "description", "details"),
			}
			if t.Title == "" {
				t.Title, t.Description = t.Description, ""
			}
			if t.Title != "" {
				out = append(out, t)
			}
		default:
			if s, ok := llm.ToText(v); ok {
				out = append(out, Topic{Title: s})
			}
		}
	}
	return out
}
