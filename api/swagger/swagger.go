package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Quality Education Platform API",
        "description": "Course authoring, review and learning progress backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
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
        {"name": "Auth", "description": "Student account and session management"},
        {"name": "Courses", "description": "Public course catalog"},
        {"name": "Student", "description": "Enrollment, progress and certificates"},
        {"name": "Teacher", "description": "Course authoring and roster"},
        {"name": "Supervisor", "description": "Review queues and platform stats"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is down"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email or username taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Student login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials or blocked account"}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Request a password reset code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ForgotPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Always OK, never reveals account existence"}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Reset password with an emailed code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Password updated"},
                    "401": {"description": "Invalid or expired code"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current student profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Auth"],
                "summary": "Update profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "Browse published courses",
                "parameters": [
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "level", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseID}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Published course with its modules",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or unpublished"}
                }
            }
        },
        "/modules/{moduleID}/lessons": {
            "get": {
                "tags": ["Courses"],
                "summary": "Published lessons of a module",
                "parameters": [
                    {"name": "moduleID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/{lessonID}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Published lesson, increments the view counter",
                "parameters": [
                    {"name": "lessonID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/stats": {
            "get": {
                "tags": ["Student"],
                "summary": "Learning statistics for the current student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses": {
            "get": {
                "tags": ["Student"],
                "summary": "Courses the student is enrolled in",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/{courseID}/enroll": {
            "post": {
                "tags": ["Student"],
                "summary": "Enroll in a published course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Enrolled"},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/student/courses/{courseID}/lessons/{lessonID}/complete": {
            "post": {
                "tags": ["Student"],
                "summary": "Record a lesson completion event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/CompleteLessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not enrolled"}
                }
            }
        },
        "/student/courses/{courseID}/lessons/{lessonID}/quiz": {
            "post": {
                "tags": ["Student"],
                "summary": "Submit quiz answers for grading",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"},
                    {"name": "lessonID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "Graded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/{courseID}/certificate": {
            "get": {
                "tags": ["Student"],
                "summary": "Completion certificate PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF stream"},
                    "409": {"description": "Course not completed"}
                }
            }
        },
        "/teacher/courses": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Courses owned by the teacher",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Teacher"],
                "summary": "Create an unpublished course",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/students": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Roster of students enrolled in the teacher's courses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teacher/students/export": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Roster as CSV download",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV stream"}
                }
            }
        },
        "/supervisor/stats": {
            "get": {
                "tags": ["Supervisor"],
                "summary": "Platform-wide statistics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisor/teachers": {
            "get": {
                "tags": ["Supervisor"],
                "summary": "Teacher accounts, filterable by status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisor/lessons/pending": {
            "get": {
                "tags": ["Supervisor"],
                "summary": "Lesson review queue",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterStudentRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            },
            "required": ["username", "email", "password", "first_name", "last_name"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "ForgotPasswordRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
        },
        "ResetPasswordRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"}
            },
            "required": ["code", "password", "confirm_password"]
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "level": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
                "thumbnail_url": {"type": "string"}
            },
            "required": ["title", "description", "category", "level"]
        },
        "CompleteLessonRequest": {
            "type": "object",
            "properties": {
                "quiz_score": {"type": "integer"},
                "time_spent_minutes": {"type": "integer"}
            }
        },
        "SubmitQuizRequest": {
            "type": "object",
            "properties": {
                "answers": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["answers"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
