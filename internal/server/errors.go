package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorloop/internal/games"
	"github.com/abhisek/tutorloop/internal/ingest"
	"github.com/abhisek/tutorloop/internal/orchestrator"
	"github.com/abhisek/tutorloop/internal/session"
)

// Error codes in responses. Caller faults map to 4xx, capability and
// backend faults to 5xx.
const (
	codeValidation   = "validation-error"
	codePrecondition = "precondition-error"
	codeIngestion    = "ingestion-error"
	codeNotFound     = "session-not-found"
	codeGeneration   = "generation-error"
	codeInternal     = "internal-error"
)

// writeError maps the domain error taxonomy onto status codes and a
// JSON body with a detail string and a stable code.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, codeInternal

	var (
		verr   *orchestrator.ValidationError
		perr   *orchestrator.PreconditionError
		ierr   *ingest.IngestionError
		genErr *games.GenerationError
	)
	switch {
	case errors.As(err, &verr):
		status, code = http.StatusBadRequest, codeValidation
	case errors.As(err, &perr):
		status, code = http.StatusConflict, codePrecondition
	case errors.As(err, &ierr):
		status, code = http.StatusUnprocessableEntity, codeIngestion
	case errors.Is(err, session.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	case errors.As(err, &genErr):
		status, code = http.StatusBadGateway, codeGeneration
	}

	c.JSON(status, gin.H{
		"detail": err.Error(),
		"code":   code,
	})
}

// badRequest reports a malformed request body.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"detail": "invalid request body: " + err.Error(),
		"code":   codeValidation,
	})
}
