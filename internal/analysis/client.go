package analysis

import (
	"context"
	"fmt"
	"strings"

	"bizops-backend/internal/llm"
	"bizops-backend/internal/sentiment"
)

var urgencyKeywords = []string{"urgent", "asap", "immediately", "critical", "crucial", "emergency"}

// PriorityFor applies the urgency rule: one point per urgency keyword present
// in text, one more when the sentiment is negative. Two or more points is
// high, one is medium, zero is low.
func PriorityFor(text string, label sentiment.Label) string {
	lower := strings.ToLower(text)
	score := 0
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	if label == sentiment.Negative {
		score++
	}
	switch {
	case score >= 2:
		return PriorityHigh
	case score == 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func defaultClientInput() ClientInputResult {
	return ClientInputResult{
		KeyRequirements: []string{},
		Sentiment:       sentiment.Neutral,
		PriorityLevel:   PriorityMedium,
		SuggestedTasks:  []SuggestedTask{},
	}
}

// AnalyzeClientInput extracts requirements, sentiment, priority and suggested
// tasks from client text. Platform data is appended to the text as key/value lines.
func (s *Service) AnalyzeClientInput(ctx context.Context, req ClientInputRequest) (ClientInputResult, error) {
	text := strings.TrimSpace(req.Text)
	if extra := flattenMap(req.PlatformData); extra != "" {
		if text != "" {
			text += "\n\n"
		}
		text += extra
	}
	if text == "" {
		return defaultClientInput(), s.reject(KindClientInput, invalid("text or platform_data is required"))
	}
	return s.analyzeClientText(ctx, KindClientInput, text, req.ClientHistory), nil
}

// AnalyzePlatformMessages runs client-input analysis over a conversation
// collected from a messaging platform.
func (s *Service) AnalyzePlatformMessages(ctx context.Context, req PlatformMessagesRequest) (ClientInputResult, error) {
	text := flattenMessages(req.Messages, req.ClientName)
	if text == "" {
		return defaultClientInput(), s.reject(KindPlatformMessages, invalid("messages must contain at least one non-empty text"))
	}
	return s.analyzeClientText(ctx, KindPlatformMessages, text, nil), nil
}

// SuggestTasks analyzes platform messages when any carry text, and the
// client requirements otherwise.
func (s *Service) SuggestTasks(ctx context.Context, req SuggestedTasksRequest) (ClientInputResult, error) {
	if flattenMessages(req.PlatformData, "") != "" {
		return s.AnalyzePlatformMessages(ctx, PlatformMessagesRequest{Messages: req.PlatformData, ClientName: req.ClientID})
	}
	if strings.TrimSpace(req.ClientRequirements) == "" {
		return defaultClientInput(), s.reject(KindClientInput, invalid("client_requirements or platform_data is required"))
	}
	return s.AnalyzeClientInput(ctx, ClientInputRequest{Text: req.ClientRequirements})
}

func (s *Service) analyzeClientText(ctx context.Context, kind Kind, text string, history []map[string]any) ClientInputResult {
	return run(ctx, s, kind, defaultClientInput, func(ctx context.Context, c *call) ClientInputResult {
		label := s.scorer.Label(text)
		spec, err := clientInputPrompt(kind, text, history)
		p := c.complete(ctx, spec, err)
		return ClientInputResult{
			KeyRequirements: p.Strings("key_requirements", []string{}),
			Sentiment:       label,
			PriorityLevel:   PriorityFor(text, label),
			SuggestedTasks:  suggestedTasks(p),
		}
	})
}

func suggestedTasks(p llm.Payload) []SuggestedTask {
	out := []SuggestedTask{}
	items, ok := p.List("suggested_tasks")
	if !ok {
		return out
	}
	for _, item := range items {
		var task SuggestedTask
		switch v := item.(type) {
		case map[string]any:
			o := object(v)
			task.Title = firstString(o, "title", "task", "name")
			task.Description = firstString(o, "description", "details")
			for _, key := range []string{"estimated_time", "estimated_hours", "hours"} {
				if h, ok := hoursValue(o.Fields[key]); ok {
					task.EstimatedTime = &h
					break
				}
			}
		case string:
			task.Title = strings.TrimSpace(v)
			if h, ok := hoursValue(v); ok {
				task.EstimatedTime = &h
			}
		}
		if task.Title == "" {
			continue
		}
		out = append(out, task)
	}
	return out
}

// flattenMessages renders messages as "[platform] sender: text" lines.
// Messages without text are skipped; the result is empty when none remain.
func flattenMessages(messages []PlatformMessage, clientName string) string {
	var lines []string
	for _, m := range messages {
		body := strings.TrimSpace(m.Text)
		if body == "" {
			body = strings.TrimSpace(m.Content)
		}
		if body == "" {
			continue
		}
		var prefix string
		if p := strings.TrimSpace(m.Platform); p != "" {
			prefix = "[" + p + "] "
		}
		if sender := strings.TrimSpace(m.Sender); sender != "" {
			prefix += sender + ": "
		}
		lines = append(lines, prefix+body)
	}
	if len(lines) == 0 {
		return ""
	}
	text := strings.Join(lines, "\n")
	if name := strings.TrimSpace(clientName); name != "" {
		text = fmt.Sprintf("Conversation with %s:\n%s", name, text)
	}
	return text
}
