// Package docs holds the OpenAPI description served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "Apache 2.0",
            "url": "https://opensource.org/licenses/Apache-2.0"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/grammars": {
            "get": {
                "produces": ["application/json"],
                "tags": ["grammars"],
                "summary": "List grammars",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/router.GrammarSummary"}
                        }
                    }
                }
            }
        },
        "/v1/grammars/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["grammars"],
                "summary": "Get a grammar definition",
                "parameters": [
                    {"type": "string", "description": "Grammar name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/definition.Definition"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.ErrorResponse"}}
                }
            }
        },
        "/v1/validate/{grammar}": {
            "post": {
                "description": "Checks the raw request body against the grammar. Malformed input is a 200 response with accepted=false.",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["validation"],
                "summary": "Validate an input",
                "parameters": [
                    {"type": "string", "description": "Grammar name", "name": "grammar", "in": "path", "required": true},
                    {"type": "string", "description": "Label stored with the verdict", "name": "source", "in": "query"},
                    {"description": "Raw input bytes", "name": "input", "in": "body", "required": true, "schema": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/verdict.Verdict"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/apperr.ErrorResponse"}}
                }
            }
        },
        "/v1/verdicts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["validation"],
                "summary": "Get a stored verdict",
                "parameters": [
                    {"type": "string", "description": "Verdict ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/verdict.Verdict"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperr.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "grammar \"a_plus\" not found, did you mean \"a_plus_b\"?"},
                "title": {"type": "string", "example": "not found"},
                "suggestions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "definition.Definition": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "Grammar"},
                "version": {"type": "string", "example": "v1"},
                "metadata": {"$ref": "#/definitions/definition.Metadata"},
                "rules": {"type": "array", "items": {"$ref": "#/definitions/definition.Rule"}}
            }
        },
        "definition.Metadata": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "definition.Rule": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["int", "literal", "space", "eoln", "eof", "repeat"]},
                "name": {"type": "string"},
                "min": {"type": "integer"},
                "max": {"type": "integer"},
                "leadingZeros": {"type": "boolean"},
                "value": {"type": "string"},
                "count": {"type": "integer"},
                "countRef": {"type": "string"},
                "separator": {"type": "string"},
                "rules": {"type": "array", "items": {"$ref": "#/definitions/definition.Rule"}}
            }
        },
        "router.GrammarSummary": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "a_plus_b"},
                "description": {"type": "string", "example": "two integers separated by a space"},
                "rules": {"type": "string"}
            }
        },
        "verdict.Verdict": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "3b241101-e2bb-4255-8caf-4136c566a962"},
                "grammar": {"type": "string", "example": "a_plus_b"},
                "source": {"type": "string", "example": "tests/1.in"},
                "accepted": {"type": "boolean", "example": false},
                "offset": {"type": "integer", "example": 3},
                "rule": {"type": "string", "example": "eoln"},
                "reason": {"type": "string", "example": "expected newline '\\n', got end of input"},
                "size": {"type": "integer", "example": 3},
                "checkedAt": {"type": "string"},
                "durationNs": {"type": "integer"}
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
	Title:            "cptool Validator API",
	Description:      "Strict single-pass validation of competitive programming inputs against named grammars.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
