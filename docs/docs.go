// Package docs holds the Swagger 2.0 description of the receipt API,
// registered with swag and served by gofiber/swagger. Keep it in step with
// the @ annotations on the handlers.
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
        "/receipts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "List receipts",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ReceiptListResult"}}
                }
            }
        },
        "/receipts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["receipts"],
                "summary": "Get a receipt",
                "parameters": [
                    {"type": "string", "description": "Receipt ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.ReceiptDetail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["receipts"],
                "summary": "Delete a receipt",
                "parameters": [
                    {"type": "string", "description": "Receipt ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/spending-analytics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Spending per store",
                "responses": {}
            }
        },
        "/upload-receipt": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["upload"],
                "summary": "Issue a single-use upload URL",
                "responses": {
                    "200": {"description": "upload URL", "schema": {"type": "string"}}
                }
            }
        },
        "/upload-receipt/{token}": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Upload a receipt image",
                "parameters": [
                    {"type": "string", "description": "Upload token", "name": "token", "in": "path", "required": true},
                    {"type": "string", "description": "Receipt label", "name": "label", "in": "formData"},
                    {"type": "string", "description": "Store name", "name": "store", "in": "formData"},
                    {"type": "string", "description": "Price as typed", "name": "price", "in": "formData"},
                    {"type": "file", "description": "JPEG image, at most 5 MB", "name": "receipt-image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Receipt"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "410": {"description": "Gone", "schema": {"type": "string"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.Receipt": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "created_at": {"type": "string"},
                "filename": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "label": {"type": "string"},
                "price": {"type": "number"},
                "size": {"type": "integer"},
                "storage_path": {"type": "string"},
                "store": {"type": "string"}
            }
        },
        "service.ReceiptDetail": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string"},
                "created_at": {"type": "string"},
                "download_url": {"type": "string"},
                "filename": {"type": "string"},
                "id": {"type": "string"},
                "image_url": {"type": "string"},
                "label": {"type": "string"},
                "price": {"type": "number"},
                "size": {"type": "integer"},
                "storage_path": {"type": "string"},
                "store": {"type": "string"}
            }
        },
        "service.ReceiptListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Receipt"}},
                "total": {"type": "integer"}
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
	Title:            "Receipt API",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
