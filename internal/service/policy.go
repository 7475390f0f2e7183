package service

import (
	appErrors "github.com/smart-college/college-api/pkg/errors"

	"github.com/smart-college/college-api/internal/models"
)

// Record-level access rules. Role middleware gates whole routes; these
// checks decide whether a specific caller may touch a specific record, and
// fail with Forbidden rather than filtering silently.

// canViewStudentData reports whether the actor may read records belonging to
// the given student. Admins always may, students only their own records.
// Teacher access is decided per call site since it depends on the subject or
// class relationship.
func canViewStudentData(actor models.Actor, studentID string) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.StudentID() == studentID
}

// requireSelfStudent ensures the actor is the student in question or an
// admin.
func requireSelfStudent(actor models.Actor, studentID string) error {
	if canViewStudentData(actor, studentID) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "not permitted to access this student's records")
}

// requireTeacher ensures the actor carries a teacher profile.
func requireTeacher(actor models.Actor) error {
	if actor.Role == models.RoleTeacher && actor.TeacherID() != "" {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "teacher role required")
}

// requireStudent ensures the actor carries a student profile.
func requireStudent(actor models.Actor) error {
	if actor.Role == models.RoleStudent && actor.StudentID() != "" {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "student role required")
}

// requireAdmin ensures the actor is an administrator.
func requireAdmin(actor models.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "admin role required")
}
