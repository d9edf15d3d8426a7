package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/formforge/forms-api/internal/api/metrics"
	"github.com/formforge/forms-api/internal/api/middleware"
	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
)

// SubmissionHandler handles HTTP requests for form submissions.
type SubmissionHandler struct {
	service ports.SubmissionService
}

func NewSubmissionHandler(service ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Create handles POST /api/submissions. Anonymous callers may submit; an
// authenticated caller is always recorded as the submitter, whatever userId
// the body carries.
//
// @Summary      Submit answers to a form
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body  body      submissionRequest  true  "Answers"
// @Success      201   {object}  submissionCreatedResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/submissions [post]
func (h *SubmissionHandler) Create(c echo.Context) error {
	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues("validation").Inc()
		return err
	}

	callerID := middleware.UserID(c)
	sub, err := h.service.CreateSubmission(c.Request().Context(), ports.CreateSubmissionInput{
		FormID:          req.FormID,
		SubmittedFields: toSubmittedFields(req.SubmittedFields),
		UserID:          callerID,
	})
	if err != nil {
		metrics.SubmissionsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return err
	}

	caller := "anonymous"
	if callerID != "" {
		caller = "authenticated"
	}
	metrics.SubmissionsTotal.WithLabelValues(caller).Inc()

	return c.JSON(http.StatusCreated, submissionCreatedResponse{
		Message:      "Form submitted successfully",
		SubmissionID: sub.ID,
	})
}

// List handles GET /api/submissions?formId=.
//
// @Summary      List submissions of a form
// @Tags         submissions
// @Produce      json
// @Param        formId  query     string  true  "Form ID"
// @Success      200     {array}   submissionResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/submissions [get]
func (h *SubmissionHandler) List(c echo.Context) error {
	subs, err := h.service.ListSubmissions(c.Request().Context(), c.QueryParam("formId"))
	if err != nil {
		return err
	}

	out := make([]submissionResponse, len(subs))
	for i, s := range subs {
		out[i] = toSubmissionResponse(s)
	}
	return c.JSON(http.StatusOK, out)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrFormNotFound):
		return "form_not_found"
	default:
		return "error"
	}
}
