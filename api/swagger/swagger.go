package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Piece-Rate Ledger API",
        "description": "Piece-rate production tracking: master data, append-only ledgers, reports and audit trail",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Client session management"},
        {"name": "Workers", "description": "Worker master data"},
        {"name": "JobPositions", "description": "Job position master data"},
        {"name": "RateCard", "description": "Task rate card"},
        {"name": "Production", "description": "Append-only production ledger"},
        {"name": "Payments", "description": "Append-only payment ledger"},
        {"name": "Reports", "description": "Aggregated payroll and productivity reports"},
        {"name": "Audit", "description": "Immutable audit trail"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Establish a client session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "402": {"description": "Subscription expired"}
                }
            }
        },
        "/workers": {
            "get": {
                "tags": ["Workers"],
                "summary": "List workers with resolved position names",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Workers"],
                "summary": "Register a worker (owner only)",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}
            }
        },
        "/workers/{id}": {
            "put": {
                "tags": ["Workers"],
                "summary": "Edit a worker (owner only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Workers"],
                "summary": "Remove a worker (owner only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/job-positions": {
            "get": {
                "tags": ["JobPositions"],
                "summary": "List job positions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["JobPositions"],
                "summary": "Add a job position (owner only)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/job-positions/{id}": {
            "put": {
                "tags": ["JobPositions"],
                "summary": "Edit a job position (owner only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["JobPositions"],
                "summary": "Remove a job position (owner only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/rate-card": {
            "get": {
                "tags": ["RateCard"],
                "summary": "List rate card entries",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["RateCard"],
                "summary": "Add a rate card entry (owner only)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/rate-card/{id}": {
            "put": {
                "tags": ["RateCard"],
                "summary": "Edit a rate card entry (owner only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["RateCard"],
                "summary": "Remove a rate card entry (owner only)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/production-entries": {
            "get": {
                "tags": ["Production"],
                "summary": "List production entries, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "cursor", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Production"],
                "summary": "Log a production entry with frozen pay computation",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/production-entries/export": {
            "get": {
                "tags": ["Production"],
                "summary": "Export the production ledger as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/payments": {
            "get": {
                "tags": ["Payments"],
                "summary": "List payments, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "cursor", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Payments"],
                "summary": "Log a payment to a worker",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/reports/dashboard": {
            "get": {
                "tags": ["Reports"],
                "summary": "Payroll, productivity and defect aggregates",
                "parameters": [
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/workers/{id}/balance": {
            "get": {
                "tags": ["Reports"],
                "summary": "One worker's lifetime totals and outstanding balance",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/audit-log": {
            "get": {
                "tags": ["Audit"],
                "summary": "Full audit trail, newest first (owner only)",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["client_id", "role"],
            "properties": {
                "client_id": {"type": "string"},
                "role": {"type": "string", "enum": ["owner", "supervisor"]},
                "password": {"type": "string"}
            }
        },
        "PageInfo": {
            "type": "object",
            "properties": {
                "page_size": {"type": "integer"},
                "next_cursor": {"type": "string"}
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
                "page": {"$ref": "#/definitions/PageInfo"},
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
