// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/clients": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "List clients",
                "parameters": [
                    {"enum": ["on-time", "delinquent", "inactive"], "type": "string", "description": "Filter by status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Register client",
                "parameters": [
                    {"description": "Client data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ClientRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/clients/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Get client",
                "parameters": [{"type": "string", "description": "Client ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Update client",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "id", "in": "path", "required": true},
                    {"description": "Client data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ClientRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Delete client",
                "parameters": [{"type": "string", "description": "Client ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/clients/{id}/inactivate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Inactivate client",
                "parameters": [
                    {"type": "string", "description": "Client ID", "name": "id", "in": "path", "required": true},
                    {"description": "Inactivation reason", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.InactivateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/clients/{id}/reactivate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Reactivate client",
                "parameters": [{"type": "string", "description": "Client ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/clients/{id}/fee-history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Client fee history",
                "parameters": [{"type": "string", "description": "Client ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/payments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "List payments",
                "parameters": [
                    {"type": "string", "description": "Filter by client ID", "name": "client_id", "in": "query"},
                    {"type": "string", "description": "First payment date (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Last payment date (YYYY-MM-DD)", "name": "to", "in": "query"},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Register payment",
                "parameters": [
                    {"description": "Payment data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/payments/{id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Payments"],
                "summary": "Delete payment",
                "parameters": [{"type": "string", "description": "Payment ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/bills": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Bills"],
                "summary": "List bills",
                "parameters": [
                    {"enum": ["pending", "paid"], "type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "boolean", "description": "Only overdue bills", "name": "overdue", "in": "query"},
                    {"type": "integer", "description": "Only pending bills due within N days", "name": "upcoming_days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Bills"],
                "summary": "Create bill",
                "parameters": [
                    {"description": "Bill data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BillRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/bills/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Bills"],
                "summary": "Get bill",
                "parameters": [{"type": "string", "description": "Bill ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Bills"],
                "summary": "Update bill",
                "parameters": [
                    {"type": "string", "description": "Bill ID", "name": "id", "in": "path", "required": true},
                    {"description": "Bill data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.BillRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Bills"],
                "summary": "Delete bill",
                "parameters": [{"type": "string", "description": "Bill ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/bills/{id}/pay": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Bills"],
                "summary": "Mark bill paid",
                "parameters": [
                    {"type": "string", "description": "Bill ID", "name": "id", "in": "path", "required": true},
                    {"description": "Payment date", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.MarkPaidRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/dashboard/monthly-revenue": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Revenue series",
                "parameters": [
                    {"type": "boolean", "description": "Daily series for one month", "name": "daily", "in": "query"},
                    {"type": "integer", "description": "Month (1-12), default current", "name": "month", "in": "query"},
                    {"type": "integer", "description": "Year, default current", "name": "year", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/dashboard/recent-payments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Recent payments",
                "parameters": [{"type": "integer", "default": 7, "description": "Look-back in days", "name": "days", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/notices/send": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notices"],
                "summary": "Send billing notice",
                "parameters": [
                    {"description": "Client", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SendNoticeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/notices/run": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Notices"],
                "summary": "Run delinquent notices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ClientRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "tax_id": {"type": "string"},
                "address": {"type": "string"},
                "tax_regime": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "monthly_fee": {"type": "number"},
                "partners": {"type": "string"},
                "modules": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.InactivateRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string"}}
        },
        "handlers.PaymentRequest": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "amount": {"type": "number"},
                "payment_date": {"type": "string", "example": "2024-03-10"},
                "note": {"type": "string"}
            }
        },
        "handlers.BillRequest": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "due_date": {"type": "string", "example": "2024-03-15"},
                "category": {"type": "string"},
                "recurring": {"type": "boolean"},
                "status": {"type": "string", "enum": ["pending", "paid"]},
                "payment_date": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "handlers.MarkPaidRequest": {
            "type": "object",
            "properties": {"payment_date": {"type": "string", "example": "2024-03-15"}}
        },
        "handlers.SendNoticeRequest": {
            "type": "object",
            "properties": {"client_id": {"type": "string"}}
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Fee Ledger API",
	Description:      "Client billing and cash flow API for an accounting office: clients, monthly fee payments, payable bills, dashboard and billing notices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
