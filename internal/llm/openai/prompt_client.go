package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bizops-backend/internal/llm"
)

// Complete sends one chat completion request. It never retries; every
// failure is returned as a classified llm.Completion.
func (c *Client) Complete(ctx context.Context, prompt, roleInstruction string) llm.Completion {
	if c.apiKey == "" {
		return llm.Failed(llm.ReasonAuth, errors.New("OPENAI_API_KEY is not set"))
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(roleInstruction) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: roleInstruction})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
	}
	if !llm.PlainTextFromContext(ctx) {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	if !isGPT5(c.model) {
		temp := float32(0)
		reqBody.Temperature = &temp
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Failed(llm.ReasonUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Failed(llm.ReasonUnknown, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reason := llm.ClassifyTransportError(err)
		if reason == llm.ReasonTimeout {
			return llm.Failed(reason, fmt.Errorf("openai request timeout: %w", err))
		}
		return llm.Failed(reason, fmt.Errorf("openai request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Failed(llm.ClassifyTransportError(err), fmt.Errorf("openai read body: %w", err))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return llm.Failed(llm.ClassifyStatus(resp.StatusCode, string(body)),
				fmt.Errorf("openai http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}
		return llm.Failed(llm.ReasonUnknown, fmt.Errorf("openai response parse: %w", err))
	}
	if parsed.Error != nil || resp.StatusCode >= 400 {
		detail := strings.TrimSpace(string(body))
		if parsed.Error != nil {
			detail = fmt.Sprintf("%s (%s %s)", parsed.Error.Message, parsed.Error.Type, parsed.Error.Code)
		}
		return llm.Failed(llm.ClassifyStatus(resp.StatusCode, detail),
			fmt.Errorf("openai http status %d: %s", resp.StatusCode, detail))
	}
	logUsage(c.model, parsed.Usage)

	if len(parsed.Choices) == 0 {
		return llm.Failed(llm.ReasonUnknown, errors.New("openai response missing choices"))
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return llm.Failed(llm.ReasonUnknown, errors.New("openai response empty content"))
	}
	return llm.Succeeded(content)
}
