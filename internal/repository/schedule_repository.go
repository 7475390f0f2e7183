package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smart-college/college-api/internal/models"
)

// ScheduleRepository handles timetable persistence.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleDetailColumns = `sc.id, sc.class_id, sc.subject_id, sc.teacher_id, sc.weekday, sc.start_time, sc.end_time, sc.room, sc.created_at,
        su.name AS subject_name, u.full_name AS teacher_name, c.name AS class_name`

const scheduleDetailJoins = ` FROM schedules sc
        JOIN subjects su ON su.id = sc.subject_id
        JOIN teachers t ON t.id = sc.teacher_id
        JOIN users u ON u.id = t.user_id
        JOIN classes c ON c.id = sc.class_id`

// Create inserts a schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.Schedule) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO schedules (id, class_id, subject_id, teacher_id, weekday, start_time, end_time, room, created_at)
        VALUES (:id, :class_id, :subject_id, :teacher_id, :weekday, :start_time, :end_time, :room, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// FindByID returns one schedule entry.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	var entry models.Schedule
	const query = `SELECT id, class_id, subject_id, teacher_id, weekday, start_time, end_time, room, created_at
        FROM schedules WHERE id = $1`
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByClass returns a class timetable ordered by weekday and start time.
func (r *ScheduleRepository) ListByClass(ctx context.Context, classID string) ([]models.ScheduleDetail, error) {
	query := "SELECT " + scheduleDetailColumns + scheduleDetailJoins +
		" WHERE sc.class_id = $1 ORDER BY sc.weekday, sc.start_time"
	var entries []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list class schedule: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns a teacher timetable ordered by weekday and start time.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleDetail, error) {
	query := "SELECT " + scheduleDetailColumns + scheduleDetailJoins +
		" WHERE sc.teacher_id = $1 ORDER BY sc.weekday, sc.start_time"
	var entries []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher schedule: %w", err)
	}
	return entries, nil
}

// FindOverlaps returns entries on the same weekday that overlap the given
// window for either the class or the teacher. Times are HH:MM strings so
// lexicographic comparison is chronological.
func (r *ScheduleRepository) FindOverlaps(ctx context.Context, classID, teacherID string, weekday models.Weekday, startTime, endTime string) ([]models.Schedule, error) {
	const query = `SELECT id, class_id, subject_id, teacher_id, weekday, start_time, end_time, room, created_at
        FROM schedules
        WHERE weekday = $1 AND (class_id = $2 OR teacher_id = $3)
          AND start_time < $4 AND end_time > $5`
	var entries []models.Schedule
	if err := r.db.SelectContext(ctx, &entries, query, weekday, classID, teacherID, endTime, startTime); err != nil {
		return nil, fmt.Errorf("find schedule overlaps: %w", err)
	}
	return entries, nil
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
