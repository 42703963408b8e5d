package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal"
)

// Pagination and validation constants.
const (
	defaultPageSize    = 50
	maxPageSize        = 100
	maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies
)

// decodeBody reads and unmarshals a JSON request body into target, writing a
// 400 response on failure. Returns false when the handler should bail out.
func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return false
	}
	return true
}

// validateRequest runs struct validation and writes a 400 response naming the
// first offending field.
func (s *Server) validateRequest(w http.ResponseWriter, req interface{}) bool {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid field %s: failed %s validation", verrs[0].Field(), verrs[0].Tag()))
		} else {
			writeError(w, http.StatusBadRequest, "invalid request")
		}
		return false
	}
	return true
}

// writeDomainError maps domain and temporal errors to appropriate HTTP status
// codes and writes a JSON error response. Internal error details are not
// leaked to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidTemplate):
		var te *domain.TemplateError
		if errors.As(err, &te) {
			writeError(w, http.StatusBadRequest, te.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid workflow template")
		}
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrWorkflowNotActive):
		writeError(w, http.StatusConflict, "workflow is not active")
	case errors.Is(err, domain.ErrCancelled):
		writeError(w, http.StatusConflict, "operation cancelled")
	case errors.Is(err, temporal.ErrWorkflowNotFound):
		writeError(w, http.StatusNotFound, "workflow not found")
	case errors.Is(err, temporal.ErrWorkflowAlreadyStarted):
		writeError(w, http.StatusConflict, "workflow already started")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseUUID parses a UUID from a string, writing a 400 error response if
// invalid. The parse error details are not echoed back.
func parseUUID(w http.ResponseWriter, s, fieldName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a valid UUID", fieldName))
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams extracts page_size and page_token from query
// parameters, applying default and maximum bounds to the page size.
func parsePaginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if parsed, err := strconv.Atoi(pageSizeStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if pageToken := r.URL.Query().Get("page_token"); pageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(pageToken)
		if err == nil {
			if parsed, parseErr := strconv.Atoi(string(decoded)); parseErr == nil && parsed > 0 {
				offset = parsed
			}
		}
	}

	return limit, offset
}

// encodePageToken encodes the next offset as a base64 page token. Returns an
// empty string when there are no more results.
func encodePageToken(offset, limit, totalCount int) string {
	nextOffset := offset + limit
	if nextOffset < totalCount {
		return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(nextOffset)))
	}
	return ""
}
