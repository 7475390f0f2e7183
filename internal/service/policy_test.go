package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smart-college/college-api/internal/models"
)

func adminActor() models.Actor {
	return models.Actor{UserID: "admin-user", Role: models.RoleAdmin}
}

func teacherActor(teacherID string) models.Actor {
	return models.Actor{UserID: "teacher-user", Role: models.RoleTeacher, Teacher: &models.TeacherProfile{ID: teacherID}}
}

func studentActor(studentID string) models.Actor {
	return models.Actor{UserID: "student-user", Role: models.RoleStudent, Student: &models.StudentProfile{ID: studentID, ClassID: "class-1"}}
}

func TestRequireSelfStudent(t *testing.T) {
	assert.NoError(t, requireSelfStudent(adminActor(), "student-1"))
	assert.NoError(t, requireSelfStudent(studentActor("student-1"), "student-1"))
	assert.Error(t, requireSelfStudent(studentActor("student-1"), "student-2"))
	assert.Error(t, requireSelfStudent(teacherActor("teacher-1"), "student-1"))
}

func TestRequireTeacher(t *testing.T) {
	assert.NoError(t, requireTeacher(teacherActor("teacher-1")))
	assert.Error(t, requireTeacher(adminActor()))
	assert.Error(t, requireTeacher(studentActor("student-1")))
	assert.Error(t, requireTeacher(models.Actor{UserID: "u", Role: models.RoleTeacher}))
}

func TestRequireStudent(t *testing.T) {
	assert.NoError(t, requireStudent(studentActor("student-1")))
	assert.Error(t, requireStudent(adminActor()))
	assert.Error(t, requireStudent(teacherActor("teacher-1")))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, requireAdmin(adminActor()))
	assert.Error(t, requireAdmin(teacherActor("teacher-1")))
	assert.Error(t, requireAdmin(studentActor("student-1")))
}
