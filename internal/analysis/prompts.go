package analysis

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"bizops-backend/internal/analysis/stats"
	"bizops-backend/internal/shared/util"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{
			"json": indentJSON,
			"num":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
			"join": strings.Join,
		}).
		ParseFS(promptFS, "prompts/*.tmpl"),
)

// Role instructions sent as the system message for each kind.
const (
	roleClientInput  = "You are a helpful assistant that extracts key requirements from client inputs and generates actionable tasks from them. Always respond with valid JSON."
	roleTaskTimeline = "You are a helpful assistant that analyzes tasks and provides structured information. Always respond with valid JSON."
	roleMeeting      = "You are a helpful assistant that analyzes meeting transcripts and extracts key information. Always respond with valid JSON."
	roleMarketing    = "You are a marketing analyst that provides data-driven insights. Always respond with valid JSON."
	roleFinancial    = "You are a financial analyst that provides data-driven insights. Always respond with valid JSON."
	roleEmployee     = "You are an HR analyst that provides balanced, data-driven insights about employee performance. Always respond with valid JSON."
	roleMarketTrends = "You are a market research analyst specializing in identifying industry trends and providing marketing insights. Always respond with valid JSON."
	roleEmailCopy    = "You are a professional marketing copywriter specialized in email marketing."
	roleResume       = "You are an HR recruitment specialist that analyzes resumes and provides structured assessments. Always respond with valid JSON."
)

// FieldSpec declares one field the model is asked to return.
type FieldSpec struct {
	Name string
	Type string
}

// PromptSpec is a rendered prompt ready for completion.
type PromptSpec struct {
	Kind            Kind
	Instruction     string
	RoleInstruction string
	Fields          []FieldSpec
}

// Hash identifies the prompt in logs without recording its content.
func (p PromptSpec) Hash() string {
	return util.HashPrompt(p.RoleInstruction + "\n" + p.Instruction)
}

var (
	clientInputFields = []FieldSpec{
		{"key_requirements", "array of strings"},
		{"suggested_tasks", `array of objects with "title", "description" and "estimated_time" (hours, number) fields`},
	}
	taskTimelineFields = []FieldSpec{
		{"estimated_time", "number of hours"},
		{"task_complexity", `string, one of "simple", "moderate", "complex"`},
		{"recommended_skills", "array of strings"},
		{"potential_challenges", "array of strings"},
	}
	meetingFields = []FieldSpec{
		{"summary", "string"},
		{"action_items", `array of objects with "task" and "assignee" fields`},
		{"key_insights", "array of strings"},
		{"sentiment_analysis", `object with "sentiment" (positive, neutral or negative) and "confidence" (number between 0 and 1)`},
	}
	marketingFields = []FieldSpec{
		{"performance_analysis", `object with "strengths" and "weaknesses" arrays of strings`},
		{"trend_identification", "array of strings"},
		{"optimization_suggestions", `array of objects with "area" and "suggestion" fields`},
	}
	financialFields = []FieldSpec{
		{"financial_health", `object with "status" and "explanation" fields`},
		{"key_insights", "array of strings"},
		{"recommendations", `array of objects with "area" and "action" fields`},
		{"prediction", "string"},
	}
	employeeFields = []FieldSpec{
		{"performance_assessment", `object with "rating" and "explanation" fields`},
		{"strengths", "array of strings"},
		{"improvement_areas", "array of strings"},
		{"recommendations", "array of strings"},
	}
	marketTrendsFields = []FieldSpec{
		{"emerging_trends", "array of strings"},
		{"opportunities", `array of objects with "title" and "description" fields`},
		{"challenges", `array of objects with "title" and "description" fields`},
		{"recommendations", "array of strings"},
	}
	resumeFields = []FieldSpec{
		{"key_skills", "array of strings"},
		{"years_experience", "number"},
		{"education", "string"},
		{"relevant_experience", "array of strings"},
		{"skills_match_score", "number between 0 and 100"},
		{"strengths", "array of strings"},
		{"gaps", "array of strings"},
		{"recommendation", `string, one of "Reject", "Consider", "Interview", "Strong Candidate"`},
	}
)

type promptData struct {
	Fields []FieldSpec
	Data   any
}

func renderPrompt(kind Kind, name, role string, fields []FieldSpec, data any) (PromptSpec, error) {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, promptData{Fields: fields, Data: data}); err != nil {
		return PromptSpec{}, fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return PromptSpec{
		Kind:            kind,
		Instruction:     strings.TrimSpace(buf.String()),
		RoleInstruction: role,
		Fields:          fields,
	}, nil
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func clientInputPrompt(kind Kind, text string, history []map[string]any) (PromptSpec, error) {
	return renderPrompt(kind, "client_input", roleClientInput, clientInputFields, struct {
		Text    string
		History []map[string]any
	}{text, history})
}

func taskTimelinePrompt(description string, history []map[string]any) (PromptSpec, error) {
	return renderPrompt(KindTaskTimeline, "task_timeline", roleTaskTimeline, taskTimelineFields, struct {
		Description string
		History     []map[string]any
	}{description, history})
}

func meetingPrompt(transcript, meetingType string) (PromptSpec, error) {
	return renderPrompt(KindMeetingTranscript, "meeting_transcript", roleMeeting, meetingFields, struct {
		Transcript  string
		MeetingType string
	}{transcript, meetingType})
}

func marketingPrompt(campaign map[string]any, segment string) (PromptSpec, error) {
	return renderPrompt(KindMarketingInsights, "marketing_insights", roleMarketing, marketingFields, struct {
		Campaign map[string]any
		Segment  string
	}{campaign, segment})
}

func financialPrompt(summary stats.FinancialSummary) (PromptSpec, error) {
	return renderPrompt(KindFinancialData, "financial_data", roleFinancial, financialFields, summary)
}

func employeePrompt(m EmployeeMetrics) (PromptSpec, error) {
	return renderPrompt(KindEmployeePerformance, "employee_performance", roleEmployee, employeeFields, m)
}

func marketTrendsPrompt(industry string, keywords []string, period string) (PromptSpec, error) {
	return renderPrompt(KindMarketTrends, "market_trends", roleMarketTrends, marketTrendsFields, struct {
		Industry   string
		Keywords   []string
		TimePeriod string
	}{industry, keywords, period})
}

func emailCopyPrompt(req EmailCopyRequest) (PromptSpec, error) {
	return renderPrompt(KindEmailCopy, "email_copy", roleEmailCopy, nil, req)
}

func resumePrompt(position, resume string) (PromptSpec, error) {
	return renderPrompt(KindResumeScreening, "resume_screening", roleResume, resumeFields, struct {
		Position   string
		ResumeText string
	}{position, resume})
}
