// Package docs registers the Swagger specification served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sims"],
                "summary": "List SIMs",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sims"],
                "summary": "Create SIM",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sims"],
                "summary": "Get SIM",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/activate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lifecycle"],
                "summary": "Activate SIM",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/install": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lifecycle"],
                "summary": "Install SIM",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/grace-period": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lifecycle"],
                "summary": "Enter Grace Period",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/reactivate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lifecycle"],
                "summary": "Reactivate SIM from Grace Period",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/billing": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Lifecycle"],
                "summary": "Mark SIM as Billing",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/deactivate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lifecycle"],
                "summary": "Deactivate SIM",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/burden": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Costs"],
                "summary": "SIM Burden",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/grace-cost": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Costs"],
                "summary": "SIM Grace Period Cost",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/free-pulsa": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Costs"],
                "summary": "SIM Free Pulsa Cost",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/sims/{id}/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sims"],
                "summary": "SIM Status History",
                "parameters": [
                    {
                        "type": "string",
                        "description": "SIM ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/reports/monthly": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Monthly Cost Report",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Report month as YYYY-MM",
                        "name": "month",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/admin/list_sims": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "List SIMs (Admin)",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/devices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Registry"],
                "summary": "List Devices",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Registry"],
                "summary": "Register Device",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/customers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Registry"],
                "summary": "List Customers",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Registry"],
                "summary": "Register Customer",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8880",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SIM Fleet Lifecycle & Cost API",
	Description:      "SIM-card fleet lifecycle and cost accrual backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
