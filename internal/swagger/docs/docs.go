// Package docs holds the generated swagger specification.
// Regenerate with `swag init -g cmd/server/main.go -o internal/swagger/docs`.
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
        "/outbox/{actor}": {
            "get": {
                "produces": ["application/activity+json"],
                "tags": ["Outbox"],
                "summary": "Read an actor's outbox collection",
                "parameters": [
                    {"type": "string", "name": "actor", "in": "path", "required": true},
                    {"type": "integer", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "post": {
                "consumes": ["application/activity+json"],
                "tags": ["Outbox"],
                "summary": "Submit an activity to an actor's outbox",
                "parameters": [
                    {"type": "string", "name": "actor", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid activity"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/u/{actor}": {
            "get": {
                "produces": ["application/activity+json"],
                "tags": ["Objects"],
                "summary": "Get a local actor document",
                "parameters": [
                    {"type": "string", "name": "actor", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/o/{id}": {
            "get": {
                "produces": ["application/activity+json"],
                "tags": ["Objects"],
                "summary": "Get an object document",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/s/{id}": {
            "get": {
                "produces": ["application/activity+json"],
                "tags": ["Objects"],
                "summary": "Get an activity document",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/admins/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admins"],
                "summary": "Operator login",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/admins/actors": {
            "post": {
                "security": [{"AdminAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admins"],
                "summary": "Provision a local actor",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        }
    },
    "securityDefinitions": {
        "AdminAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.3.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fedbox Federation API",
	Description:      "Outbound-activity server: outbox ingest, signed federation delivery, and actor document hosting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
