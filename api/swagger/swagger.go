package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "College Portal API",
        "description": "Backend for college administration: academics, attendance, results and reporting.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Login, token refresh and password management"},
        {"name": "Users", "description": "Account administration"},
        {"name": "Departments", "description": "Department catalogue"},
        {"name": "Classes", "description": "Class sections and timetables"},
        {"name": "Subjects", "description": "Subject catalogue"},
        {"name": "Teachers", "description": "Teacher profiles and subject assignments"},
        {"name": "Students", "description": "Student profiles"},
        {"name": "Schedules", "description": "Timetable slot management"},
        {"name": "Attendance", "description": "Attendance ledger and aggregation"},
        {"name": "Results", "description": "Examinations and marks"},
        {"name": "Assignments", "description": "Assignments and submissions"},
        {"name": "Notices", "description": "Notice board"},
        {"name": "Messages", "description": "Direct messages and subject feedback"},
        {"name": "Performance", "description": "Performance trend prediction"},
        {"name": "Dashboard", "description": "Role-scoped dashboards"},
        {"name": "Reports", "description": "Asynchronous report exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue tokens",
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Users with pagination"}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Provision an account",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Email already registered"}}
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Records"}}
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance for one student",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Marked"}, "403": {"description": "Not assigned to subject"}}
            }
        },
        "/attendance/percentage/{student_id}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance percentage for a student",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Percentage with raw counts"}}
            }
        },
        "/exams": {
            "post": {
                "tags": ["Results"],
                "summary": "Create an examination",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/exams/{id}": {
            "put": {
                "tags": ["Results"],
                "summary": "Update an examination",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Results"],
                "summary": "Delete an examination",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/results": {
            "post": {
                "tags": ["Results"],
                "summary": "Enter or overwrite marks",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Result with derived grade"}}
            }
        },
        "/performance/{student_id}": {
            "get": {
                "tags": ["Performance"],
                "summary": "Performance trend for a student",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Trend report with predictions"}}
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Request a report export",
                "security": [{"BearerAuth": []}],
                "responses": {"202": {"description": "Job queued"}}
            }
        },
        "/downloads/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a rendered report by signed token",
                "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired token"}}
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
