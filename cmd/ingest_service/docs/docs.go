// Package docs swagger spec of the ingest API.
// Regenerate with: swag init -g internal/ingest/api/router/router.go -o cmd/ingest_service/docs
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
        "/": {
            "get": {
                "description": "Returns a simple confirmation message",
                "tags": ["Shared"],
                "summary": "Check ingest service status",
                "responses": {
                    "200": {"description": "ingest service start!", "schema": {"type": "string"}}
                }
            }
        },
        "/debug": {
            "post": {
                "description": "Enable or disable debug logging",
                "tags": ["Shared"],
                "summary": "Toggle Debug Log Flag",
                "parameters": [
                    {"type": "string", "description": "Service name", "name": "service", "in": "query"},
                    {"type": "boolean", "description": "Debug status", "name": "status", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Service debug mode updated", "schema": {"type": "string"}},
                    "400": {"description": "Invalid status value", "schema": {"type": "string"}}
                }
            }
        },
        "/upload-video": {
            "post": {
                "description": "Stores the video under its content key, registers metadata and submits it for transcription.\nEither the video file or the filename of a pre-stored object is required.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Ingest"],
                "summary": "Upload a video and run the ingest pipeline",
                "parameters": [
                    {"type": "file", "description": "Video File", "name": "video", "in": "formData"},
                    {"type": "string", "description": "Pre-stored object identity", "name": "filename", "in": "formData"},
                    {"type": "string", "description": "Video Title", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "Video Type", "name": "videoType", "in": "formData", "required": true},
                    {"type": "string", "description": "Schedule Date-Time", "name": "scheduleDateTime", "in": "formData"},
                    {"type": "string", "description": "Key prefix override", "name": "prefix", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Run summary", "schema": {"$ref": "#/definitions/domain.UploadVideoRes"}},
                    "400": {"description": "Client input error", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Dependency exception", "schema": {"type": "object", "additionalProperties": true}},
                    "502": {"description": "Dependency rejection, upstream body attached", "schema": {"type": "object", "additionalProperties": true}},
                    "504": {"description": "Deadline exceeded", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/video/{key}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Ingest"],
                "summary": "Stream a stored video object",
                "parameters": [
                    {"type": "string", "description": "Object key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Object content", "schema": {"type": "file"}},
                    "400": {"description": "Invalid key", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Object not found", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "domain.UploadVideoRes": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "key": {"type": "string"},
                "public_url": {"type": "string"},
                "size": {"type": "integer"},
                "content_type": {"type": "string"},
                "transcriptId": {"type": "string"},
                "store_skipped": {"type": "boolean"},
                "record_id": {"type": "string"},
                "record": {"type": "object", "additionalProperties": true},
                "states": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Video Ingest Service API",
	Description:      "API documentation for Video Ingest Service",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
