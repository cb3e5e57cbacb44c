// Package docs registers the portal's OpenAPI description with swag so that
// echo-swagger can serve it under /swagger.
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
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Landing view",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/login-admin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in as administrator",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"302": {"description": "Found"}}
            }
        },
        "/user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["laboratory"],
                "summary": "User dashboard",
                "responses": {"200": {"description": "OK"}, "302": {"description": "Found"}}
            }
        },
        "/user/reservations": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["laboratory"],
                "summary": "Submit a reservation",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/reservationRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/admin/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users/{id}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Update a user",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Delete a user",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/register-admin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Register an administrator",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/admin/laboratories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List all reservations",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/laboratories/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Load a reservation for editing",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Update a reservation",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Delete a reservation",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "loginRequest": {
            "type": "object",
            "properties": {
                "correo": {"type": "string"},
                "contrasena": {"type": "string"}
            }
        },
        "registerRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "correo": {"type": "string"},
                "contrasena": {"type": "string"},
                "cedula": {"type": "string"},
                "carrera": {"type": "string"}
            }
        },
        "reservationRequest": {
            "type": "object",
            "properties": {
                "correo_institucional": {"type": "string"},
                "nombres_completos": {"type": "string"},
                "cargo": {"type": "string"},
                "carrera": {"type": "string"},
                "nivel": {"type": "string"},
                "discapacidad": {"type": "string"},
                "materia_motivo": {"type": "string"},
                "numero_estudiantes": {"type": "integer", "minimum": 1, "maximum": 35},
                "fecha_prestamo": {"type": "string", "format": "date"},
                "horario_uso": {"type": "string"},
                "descripcion_actividades": {"type": "string"},
                "laboratorio": {"type": "string"},
                "equipo": {"type": "string"}
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
	Title:            "Lab Portal",
	Description:      "Laboratory reservation portal in front of the reservations API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
