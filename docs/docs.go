// Package docs is generated by swaggo/swag from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/insights": {
            "post": {
                "description": "Requests the fixed metric set for the selected page, period and range. Every call re-fetches.",
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Fetch insights",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.StateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}
                }
            }
        },
        "/api/v1/periods": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Selectable periods",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/fiber.PeriodResponse"}}}
                }
            }
        },
        "/api/v1/selection": {
            "put": {
                "description": "Sets page, period and optional date range. Omitted fields are left unchanged, empty dates are cleared.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Update the selection",
                "parameters": [
                    {"description": "Selection", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/fiber.SelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.StateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}
                }
            }
        },
        "/api/v1/state": {
            "get": {
                "description": "Login state, administered pages, selection and the last fetched insights of the caller's session",
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Current dashboard state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.StateResponse"}}
                }
            }
        }
    },
    "definitions": {
        "fiber.CardResponse": {
            "type": "object",
            "properties": {
                "metric": {"type": "string", "example": "page_fans"},
                "title": {"type": "string", "example": "Total Followers"},
                "value": {"type": "integer", "example": 120}
            }
        },
        "fiber.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "fetch_in_progress"},
                "message": {"type": "string", "example": "insights request already in flight"}
            }
        },
        "fiber.PageResponse": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "fiber.PeriodResponse": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "Days 28"},
                "value": {"type": "string", "example": "days_28"}
            }
        },
        "fiber.SelectionRequest": {
            "type": "object",
            "properties": {
                "page_id": {"type": "string"},
                "period": {"type": "string", "example": "week"},
                "since": {"type": "string", "example": "2024-05-01"},
                "until": {"type": "string", "example": "2024-05-31"}
            }
        },
        "fiber.SelectionResponse": {
            "type": "object",
            "properties": {
                "page_id": {"type": "string"},
                "period": {"type": "string", "example": "days_28"},
                "since": {"type": "string", "example": "2024-05-01"},
                "until": {"type": "string", "example": "2024-05-31"}
            }
        },
        "fiber.StateResponse": {
            "type": "object",
            "properties": {
                "cards": {"type": "array", "items": {"$ref": "#/definitions/fiber.CardResponse"}},
                "error": {"type": "string"},
                "loading": {"type": "boolean"},
                "metrics": {"type": "object", "additionalProperties": true},
                "pages": {"type": "array", "items": {"$ref": "#/definitions/fiber.PageResponse"}},
                "selection": {"$ref": "#/definitions/fiber.SelectionResponse"},
                "status": {"type": "string", "example": "connected"},
                "user": {"$ref": "#/definitions/fiber.UserResponse"}
            }
        },
        "fiber.UserResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "picture_url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Page Insights Dashboard API",
	Description:      "Facebook page insights for the pages the logged-in user administers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
