package models

import "time"

// AdminDashboard summarises institution-wide counts.
type AdminDashboard struct {
	TotalStudents    int `json:"total_students"`
	TotalTeachers    int `json:"total_teachers"`
	TotalClasses     int `json:"total_classes"`
	TotalSubjects    int `json:"total_subjects"`
	TotalDepartments int `json:"total_departments"`
	ActiveNotices    int `json:"active_notices"`
}

// TeacherDashboard summarises a teacher's workload.
type TeacherDashboard struct {
	ClassCount      int              `json:"class_count"`
	SubjectCount    int              `json:"subject_count"`
	TodaySchedule   []ScheduleDetail `json:"today_schedule"`
	PendingGrading  int              `json:"pending_grading"`
}

// StudentDashboard summarises a student's standing.
type StudentDashboard struct {
	AttendancePercentage float64        `json:"attendance_percentage"`
	RecentResults        []ResultDetail `json:"recent_results"`
	PendingAssignments   int            `json:"pending_assignments"`
	UnreadMessages       int            `json:"unread_messages"`
}

// SystemMetrics is a lightweight instrumentation snapshot exposed through the
// API alongside the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
