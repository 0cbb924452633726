package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Settlement API",
        "description": "Requests submitted by users and the settlements recorded against them",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Requests", "description": "Refund, credit, invoice and settlement requests"},
        {"name": "Settlements", "description": "Reconciliation records, one per request"}
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
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List requests",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["PENDING", "IN_PROGRESS", "APPROVED", "REJECTED"]},
                    {"name": "type", "in": "query", "type": "string", "enum": ["REFUND", "CREDIT", "INVOICE_REQUEST", "SETTLEMENT"]},
                    {"name": "limit", "in": "query", "type": "integer", "default": 10},
                    {"name": "offset", "in": "query", "type": "integer", "default": 0},
                    {"name": "orderBy", "in": "query", "type": "string", "default": "createdAt"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Create request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRequestInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/user/{userId}": {
            "get": {
                "tags": ["Requests"],
                "summary": "List requests of a user",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "integer"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"},
                    {"name": "orderBy", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/{requestId}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Get request",
                "parameters": [
                    {"name": "requestId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK; data is absent when the id is unknown", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/update/{requestId}": {
            "patch": {
                "tags": ["Requests"],
                "summary": "Partially update request",
                "parameters": [
                    {"name": "requestId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRequestInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/update/status/{requestId}": {
            "patch": {
                "tags": ["Requests"],
                "summary": "Update request status",
                "parameters": [
                    {"name": "requestId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRequestStatusInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settlement": {
            "get": {
                "tags": ["Settlements"],
                "summary": "List settlements",
                "parameters": [
                    {"name": "requestStatus", "in": "query", "type": "string", "enum": ["PENDING", "IN_PROGRESS", "COMPLETED", "FAILED"]},
                    {"name": "thirdPartyResponseStatus", "in": "query", "type": "string", "enum": ["PENDING", "SUCCESS", "FAILED"]},
                    {"name": "limit", "in": "query", "type": "integer", "default": 10},
                    {"name": "offset", "in": "query", "type": "integer", "default": 0},
                    {"name": "orderBy", "in": "query", "type": "string", "default": "createdAt"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Settlements"],
                "summary": "Create settlement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSettlementInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Settlement already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settlement/user/{userId}": {
            "get": {
                "tags": ["Settlements"],
                "summary": "List settlements of a user",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "integer"},
                    {"name": "requestStatus", "in": "query", "type": "string"},
                    {"name": "thirdPartyResponseStatus", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"},
                    {"name": "orderBy", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settlement/{requestId}": {
            "get": {
                "tags": ["Settlements"],
                "summary": "Get settlements of a request",
                "parameters": [
                    {"name": "requestId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Settlements"],
                "summary": "Partially update the settlements of a request",
                "parameters": [
                    {"name": "requestId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSettlementInput"}}
                ],
                "responses": {
                    "200": {"description": "OK; data.count reports rows changed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateRequestInput": {
            "type": "object",
            "properties": {
                "userId": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "APPROVED", "REJECTED"]},
                "type": {"type": "string", "enum": ["REFUND", "CREDIT", "INVOICE_REQUEST", "SETTLEMENT"]},
                "requestContent": {"type": "object"},
                "responseContent": {"type": "object"},
                "remark": {"type": "string"}
            },
            "required": ["userId", "title", "description", "status", "type"]
        },
        "UpdateRequestInput": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "APPROVED", "REJECTED"]},
                "type": {"type": "string", "enum": ["REFUND", "CREDIT", "INVOICE_REQUEST", "SETTLEMENT"]},
                "requestContent": {"type": "object"},
                "responseContent": {"type": "object"},
                "remark": {"type": "string"}
            }
        },
        "UpdateRequestStatusInput": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "APPROVED", "REJECTED"]}
            },
            "required": ["status"]
        },
        "CreateSettlementInput": {
            "type": "object",
            "properties": {
                "requestId": {"type": "integer"},
                "userId": {"type": "integer"},
                "adminId": {"type": "integer"},
                "requestStatus": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "COMPLETED", "FAILED"]},
                "thirdPartyResponseStatus": {"type": "string", "enum": ["PENDING", "SUCCESS", "FAILED"]},
                "transactionId": {"type": "integer"},
                "content": {"type": "object"}
            },
            "required": ["requestId", "userId", "adminId", "requestStatus", "thirdPartyResponseStatus", "transactionId"]
        },
        "UpdateSettlementInput": {
            "type": "object",
            "properties": {
                "requestStatus": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "COMPLETED", "FAILED"]},
                "thirdPartyResponseStatus": {"type": "string", "enum": ["PENDING", "SUCCESS", "FAILED"]},
                "content": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            },
            "required": ["message"]
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
