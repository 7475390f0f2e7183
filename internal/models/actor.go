package models

// TeacherProfile is the teacher identity attached to a caller.
type TeacherProfile struct {
	ID string
}

// StudentProfile is the student identity attached to a caller, including the
// class the student is enrolled in.
type StudentProfile struct {
	ID      string
	ClassID string
}

// Actor is the resolved caller identity every core operation receives. It
// replaces ambient request state: the transport layer resolves JWT claims into
// an Actor once, and services receive it explicitly.
//
// Exactly one of Teacher/Student is set for those roles; both are nil for
// admins. An Actor with an unknown role matches no capability.
type Actor struct {
	UserID  string
	Role    UserRole
	Teacher *TeacherProfile
	Student *StudentProfile
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// TeacherID returns the teacher profile ID, or "" when the actor is not a
// teacher.
func (a Actor) TeacherID() string {
	if a.Role != RoleTeacher || a.Teacher == nil {
		return ""
	}
	return a.Teacher.ID
}

// StudentID returns the student profile ID, or "" when the actor is not a
// student.
func (a Actor) StudentID() string {
	if a.Role != RoleStudent || a.Student == nil {
		return ""
	}
	return a.Student.ID
}

// ClassID returns the class the student actor is enrolled in, or "" for any
// other role.
func (a Actor) ClassID() string {
	if a.Role != RoleStudent || a.Student == nil {
		return ""
	}
	return a.Student.ClassID
}
