package analysis

import (
	"time"

	"bizops-backend/internal/analysis/stats"
	"bizops-backend/internal/sentiment"
)

// Kind names an analysis use case.
type Kind string

const (
	KindClientInput         Kind = "client_input"
	KindPlatformMessages    Kind = "platform_messages"
	KindTaskTimeline        Kind = "task_timeline"
	KindMeetingTranscript   Kind = "meeting_transcript"
	KindMarketingInsights   Kind = "marketing_insights"
	KindFinancialData       Kind = "financial_data"
	KindEmployeePerformance Kind = "employee_performance"
	KindMarketTrends        Kind = "market_trends"
	KindEmailCopy           Kind = "email_copy"
	KindCost                Kind = "cost"
	KindResumeScreening     Kind = "resume_screening"
)

// Priority levels.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ClientInputRequest asks for requirements, sentiment, priority and tasks from client text.
type ClientInputRequest struct {
	Text          string           `json:"text"`
	PlatformData  map[string]any   `json:"platform_data,omitempty"`
	ClientHistory []map[string]any `json:"client_history,omitempty"`
}

// PlatformMessage is one chat-style message from an external platform.
// Content is accepted as an alias for Text.
type PlatformMessage struct {
	Platform  string `json:"platform,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Text      string `json:"text"`
	Content   string `json:"content,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PlatformMessagesRequest analyzes a conversation pulled from Slack, Discord or similar.
type PlatformMessagesRequest struct {
	Messages   []PlatformMessage `json:"messages"`
	ClientName string            `json:"client_name,omitempty"`
}

// SuggestedTask is a task proposed from client input. EstimatedTime is in hours.
type SuggestedTask struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	EstimatedTime *float64 `json:"estimated_time"`
}

// ClientInputResult is shared by client-input and platform-message analysis.
type ClientInputResult struct {
	KeyRequirements []string        `json:"key_requirements"`
	Sentiment       sentiment.Label `json:"sentiment"`
	PriorityLevel   string          `json:"priority_level"`
	SuggestedTasks  []SuggestedTask `json:"suggested_tasks"`
}

// SuggestedTasksRequest dispatches to platform-message or client-input analysis.
type SuggestedTasksRequest struct {
	ClientRequirements string            `json:"client_requirements"`
	ClientID           string            `json:"client_id,omitempty"`
	PlatformData       []PlatformMessage `json:"platform_data,omitempty"`
}

// TaskTimelineRequest asks for an effort estimate.
type TaskTimelineRequest struct {
	TaskDescription string           `json:"task_description"`
	ClientHistory   []map[string]any `json:"client_history,omitempty"`
}

// TaskTimelineResult is the effort estimate. EstimatedTime is in hours.
type TaskTimelineResult struct {
	EstimatedTime       float64  `json:"estimated_time"`
	TaskComplexity      string   `json:"task_complexity"`
	RecommendedSkills   []string `json:"recommended_skills"`
	PotentialChallenges []string `json:"potential_challenges"`
}

// MeetingRequest carries a transcript. MeetingType defaults to "client".
type MeetingRequest struct {
	Transcript  string `json:"transcript"`
	MeetingType string `json:"meeting_type,omitempty"`
}

// ActionItem is a follow-up extracted from a meeting.
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
}

// MeetingSentiment is the model's read of the meeting tone.
type MeetingSentiment struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// MeetingResult summarizes a meeting.
type MeetingResult struct {
	Summary           string           `json:"summary"`
	ActionItems       []ActionItem     `json:"action_items"`
	KeyInsights       []string         `json:"key_insights"`
	SentimentAnalysis MeetingSentiment `json:"sentiment_analysis"`
}

// MarketingRequest carries campaign metrics. MarketSegment defaults to "General".
type MarketingRequest struct {
	CampaignData  map[string]any `json:"campaign_data"`
	MarketSegment string         `json:"market_segment,omitempty"`
}

// PerformanceAnalysis lists what worked and what did not.
type PerformanceAnalysis struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// OptimizationSuggestion targets one area of a campaign.
type OptimizationSuggestion struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
}

// MarketingResult holds campaign insights.
type MarketingResult struct {
	PerformanceAnalysis     PerformanceAnalysis      `json:"performance_analysis"`
	TrendIdentification     []string                 `json:"trend_identification"`
	OptimizationSuggestions []OptimizationSuggestion `json:"optimization_suggestions"`
}

// FinancialRequest carries income and expense records.
type FinancialRequest struct {
	FinancialRecords []stats.FinancialRecord `json:"financial_records"`
}

// HealthAssessment is a status with its reasoning.
type HealthAssessment struct {
	Status      string `json:"status"`
	Explanation string `json:"explanation"`
}

// FinancialRecommendation is one action for one area.
type FinancialRecommendation struct {
	Area   string `json:"area"`
	Action string `json:"action"`
}

// FinancialResult combines computed metrics with model commentary.
type FinancialResult struct {
	SummaryMetrics  stats.FinancialSummary    `json:"summary_metrics"`
	FinancialHealth HealthAssessment          `json:"financial_health"`
	KeyInsights     []string                  `json:"key_insights"`
	Recommendations []FinancialRecommendation `json:"recommendations"`
	Prediction      string                    `json:"prediction"`
}

// EmployeePerformanceRequest carries one employee's records. When EmployeeID is
// set, records belonging to other users are ignored.
type EmployeePerformanceRequest struct {
	EmployeeID     string                   `json:"employee_id,omitempty"`
	AttendanceData []stats.AttendanceRecord `json:"attendance_data"`
	TaskData       []stats.TaskRecord       `json:"task_data"`
}

// EmployeeMetrics are computed locally.
type EmployeeMetrics struct {
	AvgHoursWorked     float64 `json:"avg_hours_worked"`
	PunctualityRate    float64 `json:"punctuality_rate"`
	TaskCompletionRate float64 `json:"task_completion_rate"`
	AvgTaskTime        float64 `json:"avg_task_time"`
	EfficiencyRate     float64 `json:"efficiency_rate"`
}

// PerformanceAssessment is a rating with its reasoning.
type PerformanceAssessment struct {
	Rating      string `json:"rating"`
	Explanation string `json:"explanation"`
}

// EmployeePerformanceResult combines computed metrics with model commentary.
type EmployeePerformanceResult struct {
	Metrics               EmployeeMetrics       `json:"metrics"`
	PerformanceAssessment PerformanceAssessment `json:"performance_assessment"`
	Strengths             []string              `json:"strengths"`
	ImprovementAreas      []string              `json:"improvement_areas"`
	Recommendations       []string              `json:"recommendations"`
}

// MarketTrendsRequest asks for an industry trend scan. TimePeriod defaults to "last 3 months".
type MarketTrendsRequest struct {
	Industry   string   `json:"industry"`
	Keywords   []string `json:"keywords,omitempty"`
	TimePeriod string   `json:"time_period,omitempty"`
}

// Topic is a titled item such as a market opportunity or threat.
type Topic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TrendsMetadata echoes the request.
type TrendsMetadata struct {
	Industry    string    `json:"industry"`
	Keywords    []string  `json:"keywords"`
	TimePeriod  string    `json:"time_period"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MarketTrendsResult holds the trend scan.
type MarketTrendsResult struct {
	EmergingTrends  []string       `json:"emerging_trends"`
	Opportunities   []Topic        `json:"opportunities"`
	Challenges      []Topic        `json:"challenges"`
	Recommendations []string       `json:"recommendations"`
	Metadata        TrendsMetadata `json:"metadata"`
}

// EmailCopyRequest asks for campaign email copy. Tone defaults to "professional".
type EmailCopyRequest struct {
	CampaignType   string   `json:"campaign_type"`
	TargetAudience string   `json:"target_audience"`
	KeyPoints      []string `json:"key_points,omitempty"`
	Tone           string   `json:"tone,omitempty"`
}

// EmailMetadata echoes the request.
type EmailMetadata struct {
	CampaignType   string    `json:"campaign_type"`
	TargetAudience string    `json:"target_audience"`
	Tone           string    `json:"tone"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// EmailCopyResult is generated email copy. SubjectFound is false when no
// subject line could be located in the model text.
type EmailCopyResult struct {
	Subject      string        `json:"subject_line"`
	Body         string        `json:"email_body"`
	SubjectFound bool          `json:"subject_found"`
	Metadata     EmailMetadata `json:"metadata"`
}

// CostRequest carries the team, attendance and task records for a cost breakdown.
type CostRequest struct {
	Employees  []stats.Employee         `json:"employees"`
	Attendance []stats.AttendanceRecord `json:"attendance"`
	Tasks      []stats.TaskRecord       `json:"tasks"`
	HourlyRate float64                  `json:"hourly_rate,omitempty"`
}

// ResumeScreeningRequest screens plain resume text for an open position.
type ResumeScreeningRequest struct {
	Position       string `json:"position"`
	ResumeText     string `json:"resume_text"`
	ResumeFilename string `json:"resume_filename,omitempty"`
}

// ResumeMetadata echoes the request.
type ResumeMetadata struct {
	Position       string    `json:"position"`
	ResumeFilename string    `json:"resume_filename"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

// ResumeScreeningResult is a structured candidate assessment.
// SkillsMatchScore is within [0, 100].
type ResumeScreeningResult struct {
	KeySkills          []string       `json:"key_skills"`
	YearsExperience    float64        `json:"years_experience"`
	Education          string         `json:"education"`
	RelevantExperience []string       `json:"relevant_experience"`
	SkillsMatchScore   float64        `json:"skills_match_score"`
	Strengths          []string       `json:"strengths"`
	Gaps               []string       `json:"gaps"`
	Recommendation     string         `json:"recommendation"`
	Metadata           ResumeMetadata `json:"metadata"`
}

// Subject methods name what an analysis was about when it is stored.

func (r SuggestedTasksRequest) Subject() string      { return r.ClientID }
func (r MeetingRequest) Subject() string             { return r.MeetingType }
func (r MarketingRequest) Subject() string           { return r.MarketSegment }
func (r EmployeePerformanceRequest) Subject() string { return r.EmployeeID }
func (r MarketTrendsRequest) Subject() string        { return r.Industry }
func (r EmailCopyRequest) Subject() string           { return r.CampaignType }
func (r PlatformMessagesRequest) Subject() string    { return r.ClientName }
func (r ResumeScreeningRequest) Subject() string     { return r.Position }
