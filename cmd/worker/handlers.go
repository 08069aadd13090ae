package main

import (
	"github.com/hibiken/asynq"

	borrowerJob "classlib-backend/internal/domains/borrower/job"
	importerJob "classlib-backend/internal/domains/importer/job"
	"classlib-backend/internal/shared"
	"classlib-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	rosterRefresh *borrowerJob.RosterRefreshHandler
	importProcess *importerJob.ImportProcessHandler
}

// initializeHandlers takes the job handlers built by the container
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		rosterRefresh: c.RosterRefreshJob,
		importProcess: c.ImportProcessJob,
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Roster read model
	mux.HandleFunc(shared.TypeRosterRefresh, h.rosterRefresh.ProcessTask)

	// Bulk import
	mux.HandleFunc(shared.TypeImportProcess, h.importProcess.ProcessTask)
}
