package analysis

import (
	"context"
	"strings"

	"bizops-backend/internal/llm"
	"bizops-backend/internal/sentiment"
)

const (
	defaultMeetingType = "client"
	defaultConfidence  = 0.5
	unassigned         = "Unassigned"
)

func defaultMeeting() MeetingResult {
	return MeetingResult{
		Summary:     "No summary available.",
		ActionItems: []ActionItem{},
		KeyInsights: []string{},
		SentimentAnalysis: MeetingSentiment{
			Sentiment:  string(sentiment.Neutral),
			Confidence: defaultConfidence,
		},
	}
}

// AnalyzeMeetingTranscript summarizes a transcript and extracts action items,
// insights and the overall tone.
func (s *Service) AnalyzeMeetingTranscript(ctx context.Context, req MeetingRequest) (MeetingResult, error) {
	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		return defaultMeeting(), s.reject(KindMeetingTranscript, invalid("transcript is required"))
	}
	meetingType := strings.TrimSpace(req.MeetingType)
	if meetingType == "" {
		meetingType = defaultMeetingType
	}
	return run(ctx, s, KindMeetingTranscript, defaultMeeting, func(ctx context.Context, c *call) MeetingResult {
		spec, err := meetingPrompt(transcript, meetingType)
		p := c.complete(ctx, spec, err)

		out := defaultMeeting()
		out.Summary = p.String("summary", out.Summary)
		out.KeyInsights = p.Strings("key_insights", out.KeyInsights)
		for _, kv := range pairs(p, "action_items", []string{"assignee", "owner", "assigned_to"}, []string{"task", "action", "description"}, unassigned) {
			out.ActionItems = append(out.ActionItems, ActionItem{Task: kv[1], Assignee: kv[0]})
		}
		out.SentimentAnalysis = meetingSentiment(p)
		return out
	}), nil
}

func meetingSentiment(p llm.Payload) MeetingSentiment {
	out := MeetingSentiment{Sentiment: string(sentiment.Neutral), Confidence: defaultConfidence}
	obj, ok := p.Object("sentiment_analysis")
	if !ok {
		if label, ok := sentimentLabel(p.String("sentiment_analysis", "")); ok {
			out.Sentiment = label
		}
		return out
	}
	o := object(obj)
	if label, ok := sentimentLabel(firstString(o, "sentiment", "overall_sentiment", "overall")); ok {
		out.Sentiment = label
	}
	for _, key := range []string{"confidence", "confidence_score", "score"} {
		v, ok := llm.ToFloat(o.Fields[key])
		if !ok {
			continue
		}
		if v > 1 && v <= 100 {
			v /= 100
		}
		out.Confidence = min(max(v, 0), 1)
		break
	}
	return out
}

func sentimentLabel(raw string) (string, bool) {
	switch l := sentiment.Label(strings.ToLower(strings.TrimSpace(raw))); l {
	case sentiment.Positive, sentiment.Negative, sentiment.Neutral:
		return string(l), true
	default:
		return "", false
	}
}
