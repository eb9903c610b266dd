// Package docs holds the generated swagger specification.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Daybook API Documentation",
        "title": "Daybook API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/api/v1/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "description": "List all events, optionally filtered to a single date",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "query",
                        "name": "date",
                        "type": "string",
                        "description": "Only events on this date (YYYY-MM-DD)"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Event list"
                    },
                    "400": {
                        "description": "Invalid date"
                    }
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create event",
                "description": "Create an event and schedule its reminder",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "event",
                        "description": "Event data",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "title": {
                                    "type": "string",
                                    "example": "Dentist"
                                },
                                "description": {
                                    "type": "string",
                                    "example": "Bring insurance card"
                                },
                                "date": {
                                    "type": "string",
                                    "example": "2025-01-10"
                                },
                                "time": {
                                    "type": "string",
                                    "example": "14:30"
                                },
                                "hasReminder": {
                                    "type": "boolean",
                                    "example": true
                                },
                                "reminderMinutes": {
                                    "type": "integer",
                                    "example": 15
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Event created; response includes the reminder scheduling outcome"
                    },
                    "400": {
                        "description": "Validation failed"
                    }
                }
            }
        },
        "/api/v1/events/upcoming": {
            "get": {
                "tags": ["Events"],
                "summary": "List upcoming events",
                "description": "Events on or after today, ascending by start, capped at limit",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "query",
                        "name": "limit",
                        "type": "integer",
                        "description": "Maximum number of events (default 10)"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Upcoming events"
                    },
                    "400": {
                        "description": "Invalid limit"
                    }
                }
            }
        },
        "/api/v1/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get event",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Event ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Event"
                    },
                    "404": {
                        "description": "Event not found"
                    }
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update event",
                "description": "Partial update; the reminder is re-scheduled",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Event ID"
                    },
                    {
                        "in": "body",
                        "name": "event",
                        "description": "Fields to change",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated event with reminder outcome"
                    },
                    "400": {
                        "description": "Validation failed"
                    },
                    "404": {
                        "description": "Event not found"
                    }
                }
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete event",
                "description": "Delete the event and cancel its armed reminder",
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Event ID"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Event deleted"
                    },
                    "404": {
                        "description": "Event not found"
                    }
                }
            }
        },
        "/api/v1/notifications/permission": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Request notification permission",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Whether permission was granted"
                    }
                }
            }
        },
        "/api/v1/calendar.ics": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Export calendar",
                "description": "All stored events as an iCalendar feed",
                "produces": ["text/calendar"],
                "responses": {
                    "200": {
                        "description": "iCalendar document"
                    }
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Daybook API",
	Description:      "Daybook API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
