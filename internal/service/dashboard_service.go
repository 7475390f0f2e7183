package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
)

type countingRepository interface {
	Count(ctx context.Context) (int, error)
}

type dashboardScheduleRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleDetail, error)
}

type dashboardSubmissionRepository interface {
	CountPendingForTeacher(ctx context.Context, teacherID string) (int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
}

type dashboardSubjectRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Subject, error)
}

type dashboardClassRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
}

type dashboardAttendanceRepository interface {
	Summary(ctx context.Context, studentID, subjectID string, from, to *time.Time) (*models.AttendanceSummary, error)
}

type dashboardResultRepository interface {
	ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error)
}

type dashboardAssignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type dashboardMessageRepository interface {
	CountUnread(ctx context.Context, userID string) (int, error)
}

type dashboardNoticeRepository interface {
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
}

// DashboardDeps bundles the read models the dashboards aggregate over.
type DashboardDeps struct {
	Students    countingRepository
	Teachers    countingRepository
	ClassCounts countingRepository
	SubjCounts  countingRepository
	DeptCounts  countingRepository
	Schedules   dashboardScheduleRepository
	Submissions dashboardSubmissionRepository
	Subjects    dashboardSubjectRepository
	Classes     dashboardClassRepository
	Attendance  dashboardAttendanceRepository
	Results     dashboardResultRepository
	Assignments dashboardAssignmentRepository
	Messages    dashboardMessageRepository
	Notices     dashboardNoticeRepository
}

// DashboardService assembles role-specific dashboards with short-TTL
// caching.
type DashboardService struct {
	deps   DashboardDeps
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(deps DashboardDeps, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{deps: deps, cache: cache, ttl: ttl, logger: logger}
}

// Admin returns institution-wide totals.
func (s *DashboardService) Admin(ctx context.Context, actor models.Actor) (*models.AdminDashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	const cacheKey = "dashboard:admin"
	var cached models.AdminDashboard
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	dashboard := &models.AdminDashboard{}
	var err error
	if dashboard.TotalStudents, err = s.deps.Students.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if dashboard.TotalTeachers, err = s.deps.Teachers.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	if dashboard.TotalClasses, err = s.deps.ClassCounts.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}
	if dashboard.TotalSubjects, err = s.deps.SubjCounts.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count subjects")
	}
	if dashboard.TotalDepartments, err = s.deps.DeptCounts.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count departments")
	}
	notices, err := s.deps.Notices.List(ctx, models.NoticeFilter{ActiveOnly: true, Audiences: []models.NoticeAudience{models.AudienceAll, models.AudienceStudents, models.AudienceTeachers, models.AudienceClassSpecific}})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notices")
	}
	dashboard.ActiveNotices = len(notices)

	s.store(ctx, cacheKey, dashboard)
	return dashboard, nil
}

// Teacher returns the teacher's workload summary, including today's
// timetable slots.
func (s *DashboardService) Teacher(ctx context.Context, actor models.Actor) (*models.TeacherDashboard, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	teacherID := actor.TeacherID()

	cacheKey := "dashboard:teacher:" + teacherID
	var cached models.TeacherDashboard
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	subjects, err := s.deps.Subjects.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher subjects")
	}
	classes, err := s.deps.Classes.List(ctx, models.ClassFilter{TeacherID: teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher classes")
	}
	timetable, err := s.deps.Schedules.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	pending, err := s.deps.Submissions.CountPendingForTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending grading")
	}

	today := weekdayOf(time.Now().UTC())
	todaySlots := make([]models.ScheduleDetail, 0)
	for _, slot := range timetable {
		if slot.Weekday == today {
			todaySlots = append(todaySlots, slot)
		}
	}

	dashboard := &models.TeacherDashboard{
		ClassCount:     len(classes),
		SubjectCount:   len(subjects),
		TodaySchedule:  todaySlots,
		PendingGrading: pending,
	}
	s.store(ctx, cacheKey, dashboard)
	return dashboard, nil
}

// Student returns the student's own standing.
func (s *DashboardService) Student(ctx context.Context, actor models.Actor) (*models.StudentDashboard, error) {
	if err := requireStudent(actor); err != nil {
		return nil, err
	}
	studentID := actor.StudentID()

	cacheKey := "dashboard:student:" + studentID
	var cached models.StudentDashboard
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	summary, err := s.deps.Attendance.Summary(ctx, studentID, "", nil, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}
	attendancePct := 0.0
	if summary.Total > 0 {
		attendancePct = round2(float64(summary.Present) / float64(summary.Total) * 100)
	}

	results, err := s.deps.Results.ListByStudent(ctx, studentID, models.ResultFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	if len(results) > 5 {
		results = results[len(results)-5:]
	}

	assignments, err := s.deps.Assignments.List(ctx, models.AssignmentFilter{ClassID: actor.ClassID()})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	submissions, err := s.deps.Submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	submitted := make(map[string]bool, len(submissions))
	for _, submission := range submissions {
		submitted[submission.AssignmentID] = true
	}
	pending := 0
	now := time.Now().UTC()
	for _, assignment := range assignments {
		if !submitted[assignment.ID] && assignment.DueDate.After(now) {
			pending++
		}
	}

	unread, err := s.deps.Messages.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread messages")
	}

	dashboard := &models.StudentDashboard{
		AttendancePercentage: attendancePct,
		RecentResults:        results,
		PendingAssignments:   pending,
		UnreadMessages:       unread,
	}
	s.store(ctx, cacheKey, dashboard)
	return dashboard, nil
}

func (s *DashboardService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.String("key", key), zap.Error(err))
	}
}

func weekdayOf(t time.Time) models.Weekday {
	switch t.Weekday() {
	case time.Monday:
		return models.WeekdayMonday
	case time.Tuesday:
		return models.WeekdayTuesday
	case time.Wednesday:
		return models.WeekdayWednesday
	case time.Thursday:
		return models.WeekdayThursday
	case time.Friday:
		return models.WeekdayFriday
	case time.Saturday:
		return models.WeekdaySaturday
	default:
		return ""
	}
}
