package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Poly Schedule API",
        "description": "Schedule generation service for Cal Poly course sections",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Conflict-free schedule generation and export"},
        {"name": "Sections", "description": "Scraped section pool with PolyRatings attached"},
        {"name": "Terms", "description": "Scraped term metadata"},
        {"name": "Authentication", "description": "Account registration and login"},
        {"name": "Saved schedules", "description": "Per-user persisted schedules"}
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
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate schedules",
                "description": "Build conflict-free section combinations for the requested courses, scored and ranked",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateSchedulesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/export": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Export a schedule",
                "description": "Render a picked section list as CSV or PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Document"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections",
                "parameters": [
                    {"name": "termCode", "in": "query", "type": "string", "required": true},
                    {"name": "subject", "in": "query", "type": "string", "required": true},
                    {"name": "catalog", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/current": {
            "get": {
                "tags": ["Terms"],
                "summary": "Current term",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No current term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{code}": {
            "get": {
                "tags": ["Terms"],
                "summary": "Term by code",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Bad credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me/schedules": {
            "get": {
                "tags": ["Saved schedules"],
                "summary": "List saved schedules",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Saved schedules"],
                "summary": "Save a schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/me/schedules/{id}": {
            "delete": {
                "tags": ["Saved schedules"],
                "summary": "Delete a saved schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateSchedulesRequest": {
            "type": "object",
            "required": ["termCode", "courses"],
            "properties": {
                "termCode": {"type": "string"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseRequest"}},
                "lockedClassNbrs": {"type": "array", "items": {"type": "integer"}},
                "blockedSlots": {"type": "array", "items": {"$ref": "#/definitions/BlockedSlot"}},
                "earliestStartMinute": {"type": "integer"},
                "latestEndMinute": {"type": "integer"},
                "allowedDays": {"type": "string"},
                "minRating": {"type": "number"},
                "openSeatsOnly": {"type": "boolean"},
                "sortBy": {"type": "string", "enum": ["rating", "compact", "fewest-days", "earliest-start", "latest-end"]},
                "rawLimit": {"type": "integer"},
                "displayLimit": {"type": "integer"}
            }
        },
        "CourseRequest": {
            "type": "object",
            "required": ["subject"],
            "properties": {
                "subject": {"type": "string"},
                "catalogNumber": {"type": "string"}
            }
        },
        "BlockedSlot": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "startMinute": {"type": "integer"},
                "endMinute": {"type": "integer"}
            }
        },
        "ExportScheduleRequest": {
            "type": "object",
            "required": ["format", "sections"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "title": {"type": "string"},
                "sections": {"type": "array", "items": {"type": "object"}}
            }
        },
        "SaveScheduleRequest": {
            "type": "object",
            "required": ["termCode", "name", "classNbrs"],
            "properties": {
                "termCode": {"type": "string"},
                "name": {"type": "string"},
                "classNbrs": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "fullName": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
