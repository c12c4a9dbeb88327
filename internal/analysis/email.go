package analysis

import (
	"context"
	"strings"
)

// GenerateEmailCopy writes marketing email copy and splits it into subject and body.
func (s *Service) GenerateEmailCopy(ctx context.Context, req EmailCopyRequest) (EmailCopyResult, error) {
	req.CampaignType = strings.TrimSpace(req.CampaignType)
	req.TargetAudience = strings.TrimSpace(req.TargetAudience)
	req.Tone = strings.TrimSpace(req.Tone)
	if req.Tone == "" {
		req.Tone = defaultTone
	}
	req.KeyPoints = trimAll(req.KeyPoints)

	meta := EmailMetadata{
		CampaignType:   req.CampaignType,
		TargetAudience: req.TargetAudience,
		Tone:           req.Tone,
		GeneratedAt:    s.now().UTC(),
	}
	fallback := func() EmailCopyResult { return EmailCopyResult{Metadata: meta} }
	switch {
	case req.CampaignType == "":
		return fallback(), s.reject(KindEmailCopy, invalid("campaign_type is required"))
	case req.TargetAudience == "":
		return fallback(), s.reject(KindEmailCopy, invalid("target_audience is required"))
	}

	return run(ctx, s, KindEmailCopy, fallback, func(ctx context.Context, c *call) EmailCopyResult {
		spec, err := emailCopyPrompt(req)
		text, ok := c.text(ctx, spec, err)
		out := fallback()
		if !ok {
			return out
		}
		out.Subject, out.Body, out.SubjectFound = ScrapeSubjectLine(text)
		return out
	}), nil
}
