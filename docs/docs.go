// Package docs holds the OpenAPI document served under /swagger/*. It is
// maintained by hand alongside the godoc annotations in internal/http/handler.
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
        "/customer-api/report": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["report"],
                "summary": "Customer report",
                "responses": {
                    "200": {"description": "From Customer service", "schema": {"type": "string"}}
                }
            }
        },
        "/employee-api/report": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["report"],
                "summary": "Employee report",
                "responses": {
                    "200": {"description": "From Employee operations", "schema": {"type": "string"}}
                }
            }
        },
        "/eureka/apps": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "List every registered application",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ApplicationsEnvelope"}}
                }
            }
        },
        "/eureka/apps/{app}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "Get one application",
                "parameters": [
                    {"type": "string", "description": "Application name", "name": "app", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ApplicationEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["registry"],
                "summary": "Register an instance",
                "parameters": [
                    {"type": "string", "description": "Application name", "name": "app", "in": "path", "required": true},
                    {"description": "Instance", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.InstanceEnvelope"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/eureka/apps/{app}/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["registry"],
                "summary": "Get one instance",
                "parameters": [
                    {"type": "string", "description": "Application name", "name": "app", "in": "path", "required": true},
                    {"type": "string", "description": "Instance ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.InstanceEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "put": {
                "tags": ["registry"],
                "summary": "Renew an instance lease",
                "parameters": [
                    {"type": "string", "description": "Application name", "name": "app", "in": "path", "required": true},
                    {"type": "string", "description": "Instance ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["registry"],
                "summary": "Cancel an instance",
                "parameters": [
                    {"type": "string", "description": "Application name", "name": "app", "in": "path", "required": true},
                    {"type": "string", "description": "Instance ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/eureka/apps/{app}/{id}/status": {
            "put": {
                "tags": ["registry"],
                "summary": "Override an instance status",
                "parameters": [
                    {"type": "string", "description": "Application name", "name": "app", "in": "path", "required": true},
                    {"type": "string", "description": "Instance ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "UP, DOWN, STARTING, OUT_OF_SERVICE or UNKNOWN", "name": "value", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ApplicationEnvelope": {
            "type": "object",
            "properties": {"application": {"$ref": "#/definitions/model.Application"}}
        },
        "handler.ApplicationsEnvelope": {
            "type": "object",
            "properties": {"applications": {"$ref": "#/definitions/model.Applications"}}
        },
        "handler.InstanceEnvelope": {
            "type": "object",
            "properties": {"instance": {"$ref": "#/definitions/model.Instance"}}
        },
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.Application": {
            "type": "object",
            "properties": {
                "instance": {"type": "array", "items": {"$ref": "#/definitions/model.Instance"}},
                "name": {"type": "string"}
            }
        },
        "model.Applications": {
            "type": "object",
            "properties": {
                "application": {"type": "array", "items": {"$ref": "#/definitions/model.Application"}}
            }
        },
        "model.Instance": {
            "type": "object",
            "required": ["app", "hostName", "instanceId", "port"],
            "properties": {
                "app": {"type": "string", "maxLength": 255},
                "healthCheckUrl": {"type": "string"},
                "homePageUrl": {"type": "string"},
                "hostName": {"type": "string", "maxLength": 255},
                "instanceId": {"type": "string", "maxLength": 255},
                "ipAddr": {"type": "string"},
                "lastRenewalTimestamp": {"type": "string"},
                "lastUpdatedTimestamp": {"type": "string"},
                "leaseInfo": {"$ref": "#/definitions/model.LeaseInfo"},
                "metadata": {"type": "object", "additionalProperties": {"type": "string"}},
                "port": {"type": "integer", "maximum": 65535, "minimum": 1},
                "registrationTimestamp": {"type": "string"},
                "securePort": {"type": "integer", "maximum": 65535, "minimum": 1},
                "status": {"type": "string", "enum": ["UP", "DOWN", "STARTING", "OUT_OF_SERVICE", "UNKNOWN"]}
            }
        },
        "model.LeaseInfo": {
            "type": "object",
            "properties": {
                "durationInSecs": {"type": "integer", "minimum": 0},
                "renewalIntervalInSecs": {"type": "integer", "minimum": 0}
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
	Title:            "cloudgw",
	Description:      "Customer and employee report services with a lease-based service registry.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
