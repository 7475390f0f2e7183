package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-college/college-api/internal/models"
	appErrors "github.com/smart-college/college-api/pkg/errors"
	"github.com/smart-college/college-api/pkg/export"
	"github.com/smart-college/college-api/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	FindByID(ctx context.Context, id string) (*models.ReportJob, error)
	ListByRequester(ctx context.Context, userID string) ([]models.ReportJob, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus, filePath, errMsg string) error
}

type reportDispatcher interface {
	Enqueue(job jobs.Job) error
}

type reportResultSource interface {
	ListByStudent(ctx context.Context, studentID string, filter models.ResultFilter) ([]models.ResultDetail, error)
}

type reportStudentSource interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, error)
}

type reportAttendanceSource interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.Attendance, error)
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

// ReportRequest asks for a report to be rendered in the background.
type ReportRequest struct {
	Type      models.ReportType `json:"type" validate:"required"`
	StudentID string            `json:"student_id"`
	ClassID   string            `json:"class_id"`
	SubjectID string            `json:"subject_id"`
}

// ReportStatus is a job plus its download token once the file is ready.
type ReportStatus struct {
	models.ReportJob
	DownloadToken string     `json:"download_token,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// ReportDownload is a resolved, opened export file.
type ReportDownload struct {
	File      *os.File
	Filename  string
	ExpiresAt time.Time
}

// ReportService accepts export requests, tracks their jobs and resolves
// signed downloads. Rendering happens on the queue, off the request path.
type ReportService struct {
	repo      reportJobStore
	queue     reportDispatcher
	signer    downloadSigner
	store     fileStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportJobStore, queue reportDispatcher, signer downloadSigner, store fileStore, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReportService{repo: repo, queue: queue, signer: signer, store: store, validator: validate, logger: logger}
}

// Request validates and queues a report job.
func (s *ReportService) Request(ctx context.Context, actor models.Actor, req ReportRequest) (*models.ReportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}

	switch req.Type {
	case models.ReportReportCard:
		if req.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required for report cards")
		}
		if actor.Role == models.RoleStudent {
			if err := requireSelfStudent(actor, req.StudentID); err != nil {
				return nil, err
			}
		}
	case models.ReportAttendanceRegister:
		if req.ClassID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class_id is required for attendance registers")
		}
		if actor.Role == models.RoleStudent {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "attendance registers are restricted to staff")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report type")
	}

	job := &models.ReportJob{
		Type:        req.Type,
		RequestedBy: actor.UserID,
		StudentID:   optional(req.StudentID),
		ClassID:     optional(req.ClassID),
		SubjectID:   optional(req.SubjectID),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		if updateErr := s.repo.UpdateStatus(ctx, job.ID, models.ReportFailed, "", "failed to enqueue job"); updateErr != nil {
			s.logger.Warn("failed to mark report job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	return job, nil
}

// Status returns job state. Only the requester or an admin may look, and a
// completed job carries a fresh signed download token.
func (s *ReportService) Status(ctx context.Context, actor models.Actor, id string) (*ReportStatus, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if !actor.IsAdmin() && job.RequestedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report belongs to another user")
	}

	status := &ReportStatus{ReportJob: *job}
	if job.Status == models.ReportCompleted && job.FilePath != nil && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, *job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
		}
		status.DownloadToken = token
		status.ExpiresAt = &expiresAt
	}
	return status, nil
}

// List returns the actor's own report jobs, newest first.
func (s *ReportService) List(ctx context.Context, actor models.Actor) ([]models.ReportJob, error) {
	items, err := s.repo.ListByRequester(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list report jobs")
	}
	return items, nil
}

// Download validates a signed token and opens the rendered file.
func (s *ReportService) Download(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.Status != models.ReportCompleted || job.FilePath == nil || *job.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report file")
	}
	return &ReportDownload{File: file, Filename: filepath.Base(relPath), ExpiresAt: expiresAt}, nil
}

// ReportWorker renders queued report jobs.
type ReportWorker struct {
	repo       reportJobStore
	results    reportResultSource
	students   reportStudentSource
	attendance reportAttendanceSource
	store      fileStore
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewReportWorker constructs a worker. Its Handle method is the queue handler.
func NewReportWorker(repo reportJobStore, results reportResultSource, students reportStudentSource, attendance reportAttendanceSource, store fileStore, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWorker{
		repo:       repo,
		results:    results,
		students:   students,
		attendance: attendance,
		store:      store,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// Handle renders one job. A returned error lets the queue retry; the final
// status row always reflects the latest attempt.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.FindByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", job.ID, err)
	}
	if err := w.repo.UpdateStatus(ctx, record.ID, models.ReportRunning, "", ""); err != nil {
		return fmt.Errorf("mark report job running: %w", err)
	}

	var relPath string
	switch record.Type {
	case models.ReportReportCard:
		relPath, err = w.renderReportCard(ctx, record)
	case models.ReportAttendanceRegister:
		relPath, err = w.renderAttendanceRegister(ctx, record)
	default:
		err = fmt.Errorf("unsupported report type %q", record.Type)
	}
	if err != nil {
		if updateErr := w.repo.UpdateStatus(ctx, record.ID, models.ReportFailed, "", err.Error()); updateErr != nil {
			w.logger.Warn("failed to mark report job failed", zap.String("job_id", record.ID), zap.Error(updateErr))
		}
		return err
	}

	if err := w.repo.UpdateStatus(ctx, record.ID, models.ReportCompleted, relPath, ""); err != nil {
		return fmt.Errorf("mark report job completed: %w", err)
	}
	w.logger.Info("report rendered", zap.String("job_id", record.ID), zap.String("type", string(record.Type)), zap.String("path", relPath))
	return nil
}

func (w *ReportWorker) renderReportCard(ctx context.Context, job *models.ReportJob) (string, error) {
	if job.StudentID == nil {
		return "", fmt.Errorf("report card without student")
	}
	student, err := w.students.FindByID(ctx, *job.StudentID)
	if err != nil {
		return "", fmt.Errorf("load student: %w", err)
	}

	filter := models.ResultFilter{}
	if job.SubjectID != nil {
		filter.SubjectID = *job.SubjectID
	}
	results, err := w.results.ListByStudent(ctx, student.ID, filter)
	if err != nil {
		return "", fmt.Errorf("load results: %w", err)
	}

	data := export.Dataset{Headers: []string{"Exam", "Type", "Date", "Marks", "Total", "Percentage", "Grade"}}
	for _, result := range results {
		percentage, err := Percentage(result.MarksObtained, result.TotalMarks)
		if err != nil {
			continue
		}
		data.Rows = append(data.Rows, map[string]string{
			"Exam":       result.ExamName,
			"Type":       string(result.ExamType),
			"Date":       result.ExamDate.Format("2006-01-02"),
			"Marks":      fmt.Sprintf("%.2f", result.MarksObtained),
			"Total":      fmt.Sprintf("%.2f", result.TotalMarks),
			"Percentage": fmt.Sprintf("%.2f", percentage),
			"Grade":      GradeFor(percentage),
		})
	}

	title := fmt.Sprintf("Report Card - %s (%s)", student.FullName, student.StudentNumber)
	payload, err := w.pdf.Render(data, title)
	if err != nil {
		return "", fmt.Errorf("render report card: %w", err)
	}
	return w.store.Save(filepath.Join("reports", job.ID+".pdf"), payload)
}

func (w *ReportWorker) renderAttendanceRegister(ctx context.Context, job *models.ReportJob) (string, error) {
	if job.ClassID == nil {
		return "", fmt.Errorf("attendance register without class")
	}
	filter := models.AttendanceFilter{ClassID: *job.ClassID, PageSize: 10000}
	if job.SubjectID != nil {
		filter.SubjectID = *job.SubjectID
	}
	records, err := w.attendance.List(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("load attendance: %w", err)
	}

	students, err := w.students.List(ctx, models.StudentFilter{ClassID: *job.ClassID})
	if err != nil {
		return "", fmt.Errorf("load class roster: %w", err)
	}
	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.ID] = student.FullName
	}

	data := export.Dataset{Headers: []string{"Student", "Roll", "Subject", "Date", "Present", "Marked By", "Remarks"}}
	rolls := make(map[string]string, len(students))
	for _, student := range students {
		rolls[student.ID] = student.RollNumber
	}
	for _, record := range records {
		present := "no"
		if record.IsPresent {
			present = "yes"
		}
		remarks := ""
		if record.Remarks != nil {
			remarks = *record.Remarks
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":   names[record.StudentID],
			"Roll":      rolls[record.StudentID],
			"Subject":   record.SubjectID,
			"Date":      record.Date.Format("2006-01-02"),
			"Present":   present,
			"Marked By": record.MarkedBy,
			"Remarks":   remarks,
		})
	}

	payload, err := w.csv.Render(data)
	if err != nil {
		return "", fmt.Errorf("render attendance register: %w", err)
	}
	return w.store.Save(filepath.Join("reports", job.ID+".csv"), payload)
}
