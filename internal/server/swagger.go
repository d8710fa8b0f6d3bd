package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Appear AI Audit API
// @version 0.1
// @description Interactive documentation for the AI exposure audit API surface.
// @contact.name Appear AI Audit Maintainers
// @contact.url https://github.com/georgebossman22/appear-ai-audit-working
// @BasePath /
