package models

import "time"

// NoticePriority ranks a notice.
type NoticePriority string

const (
	PriorityLow    NoticePriority = "low"
	PriorityMedium NoticePriority = "medium"
	PriorityHigh   NoticePriority = "high"
	PriorityUrgent NoticePriority = "urgent"
)

// Valid returns true when the priority is a supported value.
func (p NoticePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// NoticeAudience selects who a notice is visible to.
type NoticeAudience string

const (
	AudienceAll           NoticeAudience = "all"
	AudienceStudents      NoticeAudience = "students"
	AudienceTeachers      NoticeAudience = "teachers"
	AudienceClassSpecific NoticeAudience = "class_specific"
)

// Valid returns true when the audience is a supported value.
func (a NoticeAudience) Valid() bool {
	switch a {
	case AudienceAll, AudienceStudents, AudienceTeachers, AudienceClassSpecific:
		return true
	default:
		return false
	}
}

// Notice is an announcement targeted at an audience. TargetClassID is set
// only for class_specific notices.
type Notice struct {
	ID            string         `db:"id" json:"id"`
	Title         string         `db:"title" json:"title"`
	Content       string         `db:"content" json:"content"`
	Priority      NoticePriority `db:"priority" json:"priority"`
	Audience      NoticeAudience `db:"audience" json:"audience"`
	TargetClassID *string        `db:"target_class_id" json:"target_class_id,omitempty"`
	CreatedBy     string         `db:"created_by" json:"created_by"`
	Active        bool           `db:"active" json:"active"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// NoticeFilter scopes notice listing queries. Audiences and ClassID come
// from the caller's role, not from user input.
type NoticeFilter struct {
	ActiveOnly bool
	Priority   NoticePriority
	Audiences  []NoticeAudience
	ClassID    string
}
