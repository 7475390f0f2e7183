package models

// TrendDirection classifies the fitted slope of an exam percentage series.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// TrendPrediction is the outcome of fitting a linear trend to a student's
// chronological exam percentages. InsufficientData marks the sentinel result
// returned for fewer than three observations; no regression is computed and
// the remaining fields are zero.
type TrendPrediction struct {
	InsufficientData bool           `json:"insufficient_data"`
	CurrentAverage   float64        `json:"current_average"`
	Slope            float64        `json:"slope"`
	Trend            TrendDirection `json:"trend"`
	Predictions      []float64      `json:"predictions"`
	Recommendation   string         `json:"recommendation"`
}

// PerformanceReport wraps a student's trend prediction with context.
type PerformanceReport struct {
	StudentID    string          `json:"student_id"`
	ExamCount    int             `json:"exam_count"`
	Percentages  []float64       `json:"percentages"`
	Prediction   TrendPrediction `json:"prediction"`
	FromCache    bool            `json:"-"`
}
