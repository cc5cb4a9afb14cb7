// Package swagger holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/serve.go -o docs/swagger
package swagger

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
        "/catalog/authors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List Authors",
                "responses": {
                    "200": {
                        "description": "Authors",
                        "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Create Author",
                "responses": {
                    "201": {"description": "Author", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid field", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/catalog/authors/{id}": {
            "get": {
                "description": "Serialize an author with its books. Cycles are replaced by ids.",
                "produces": ["application/json", "application/yaml"],
                "tags": ["catalog"],
                "summary": "Get Author",
                "parameters": [
                    {"type": "integer", "description": "Author ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "json or yaml", "name": "format", "in": "query"},
                    {"type": "string", "description": "Comma separated (dotted) fields", "name": "fields", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Author", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/catalog/authors/{id}/books": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Link Books",
                "parameters": [
                    {"type": "integer", "description": "Author ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Author", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/catalog/shelves/{id}/books": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Shelve Books",
                "parameters": [
                    {"type": "integer", "description": "Shelf ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Shelf", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/catalog/exports": {
            "post": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Export Catalog",
                "parameters": [
                    {"type": "string", "description": "json or yaml", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Exported keys", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}
                }
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
	Title:            "entity-kit Catalog API",
	Description:      "Catalog of authors, books and shelves kept in sync by the entity helpers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
