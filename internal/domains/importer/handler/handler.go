package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"classlib-backend/internal/domains/importer/model"
	"classlib-backend/internal/domains/importer/service"
	"classlib-backend/internal/shared/response"
)

// legacyFileField is the upload field name of older clients.
const legacyFileField = "csv"

type Handler struct {
	service        service.ServiceInterface
	maxUploadBytes int64
}

// NewHandler creates a new import handler
func NewHandler(service service.ServiceInterface, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateImport handles POST /api/v1/imports
// Form: file (CSV or XLSX), type=items|borrowers (default items), async=true|false
func (h *Handler) CreateImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var req model.ImportRequest
	if err := c.ShouldBind(&req); err != nil {
		if isTooLarge(err) {
			response.RequestEntityTooLarge(c, "File exceeds the upload limit")
			return
		}
		response.BadRequest(c, "Invalid form data")
		return
	}
	req.Normalize()

	file, err := formFile(c)
	if err != nil {
		if isTooLarge(err) {
			response.RequestEntityTooLarge(c, "File exceeds the upload limit")
			return
		}
		response.FromError(c, model.ErrMissingFile)
		return
	}

	data, err := readFile(file)
	if err != nil {
		log.Error().Err(err).Str("file_name", file.Filename).Msg("Failed to read uploaded file")
		response.BadRequest(c, "Could not read uploaded file")
		return
	}

	log.Info().
		Str("request_id", c.GetString("request_id")).
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Str("kind", string(req.Kind)).
		Bool("async", req.Async).
		Msg("[ImportHandler] Received import request")

	var run *model.ImportRun
	if req.Async {
		run, err = h.service.SubmitFile(c.Request.Context(), req.Kind, file.Filename, data)
	} else {
		run, err = h.service.ImportFile(c.Request.Context(), req.Kind, file.Filename, data)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if req.Async {
		status = http.StatusAccepted
	}
	response.Success(c, status, run)
}

// ListImports handles GET /api/v1/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	runs, err := h.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, runs, &response.Meta{Limit: limit, Total: len(runs)})
}

// GetImport handles GET /api/v1/imports/:id
func (h *Handler) GetImport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid import id")
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, run)
}

func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err == nil {
		return file, nil
	}
	if legacy, legacyErr := c.FormFile(legacyFileField); legacyErr == nil {
		return legacy, nil
	}
	return nil, err
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
