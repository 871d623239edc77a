// Package docs holds the OpenAPI description served under /swagger.
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
        "/players": {
            "get": {
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "List players in registration order",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Register a player",
                "parameters": [{"description": "Player name", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.registerPlayerInput"}}],
                "responses": {
                    "201": {"description": "Registered player", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Malformed body", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Blank or oversized name", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Fails with 409 while matches exist unless cascade=true.",
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Delete every player",
                "parameters": [{"type": "boolean", "description": "Delete matches first", "name": "cascade", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "409": {"description": "Players still have matches", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/players/count": {
            "get": {
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Number of registered players",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}}
            }
        },
        "/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "List recorded matches",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Report the outcome of a match",
                "parameters": [{"description": "Winner and loser ids", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.reportMatchInput"}}],
                "responses": {
                    "201": {"description": "Recorded match", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Self match or non-positive id", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Pair already played", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Unknown player", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Delete every match",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}}
            }
        },
        "/standings": {
            "get": {
                "description": "Ordered by wins descending, ties by registration order.",
                "produces": ["application/json"],
                "tags": ["tournament"],
                "summary": "Current standings",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/pairings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Pairs players of equal wins without rematches. The same seed over the same standings gives the same round.",
                "produces": ["application/json"],
                "tags": ["tournament"],
                "summary": "Compute the next round",
                "parameters": [{"type": "integer", "description": "Random seed", "name": "seed", "in": "query"}],
                "responses": {
                    "200": {"description": "Round", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "No valid pairing or odd player count", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "handlers.registerPlayerInput": {
            "type": "object",
            "properties": {"name": {"type": "string"}}
        },
        "handlers.reportMatchInput": {
            "type": "object",
            "properties": {"loser_id": {"type": "integer"}, "winner_id": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Swiss Tournament API",
	Description:      "Player registration, match reporting, standings and Swiss-system pairings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
