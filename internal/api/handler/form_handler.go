package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/formforge/forms-api/internal/api/metrics"
	"github.com/formforge/forms-api/internal/api/middleware"
	"github.com/formforge/forms-api/internal/core/ports"
)

// FormHandler handles HTTP requests for form definitions.
type FormHandler struct {
	service ports.FormService
}

func NewFormHandler(service ports.FormService) *FormHandler {
	return &FormHandler{service: service}
}

// Create handles POST /api/forms.
//
// @Summary      Create a form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      formRequest  true  "Form definition"
// @Success      201   {object}  formMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/forms [post]
func (h *FormHandler) Create(c echo.Context) error {
	var req formRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	form, err := h.service.CreateForm(c.Request().Context(), ports.CreateFormInput{
		Title:   req.Title,
		Fields:  toFieldSpecs(req.Fields),
		OwnerID: middleware.UserID(c),
	})
	if err != nil {
		return err
	}

	metrics.FormsMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, formMutationResponse{
		Message: "Form created successfully",
		FormID:  form.ID,
	})
}

// Get handles GET /api/forms/:id.
//
// @Summary      Get a form
// @Tags         forms
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  formResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/forms/{id} [get]
func (h *FormHandler) Get(c echo.Context) error {
	form, err := h.service.GetForm(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFormResponse(form))
}

// List handles GET /api/forms.
//
// @Summary      List forms
// @Tags         forms
// @Produce      json
// @Success      200  {array}   formSummaryResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/forms [get]
func (h *FormHandler) List(c echo.Context) error {
	out := make([]formSummaryResponse, 0)
	for summary, err := range h.service.ListForms(c.Request().Context()) {
		if err != nil {
			return err
		}
		out = append(out, toFormSummaryResponse(summary))
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/forms/:id. Only the owner may update a form.
//
// @Summary      Replace a form's title and fields
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Form ID"
// @Param        body  body      formRequest  true  "Form definition"
// @Success      200   {object}  formMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/forms/{id} [put]
func (h *FormHandler) Update(c echo.Context) error {
	var req formRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	form, err := h.service.UpdateForm(c.Request().Context(), ports.UpdateFormInput{
		ID:       c.Param("id"),
		CallerID: middleware.UserID(c),
		Title:    req.Title,
		Fields:   toFieldSpecs(req.Fields),
	})
	if err != nil {
		return err
	}

	metrics.FormsMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, formMutationResponse{
		Message: "Form updated successfully",
		FormID:  form.ID,
	})
}

// Delete handles DELETE /api/forms/:id. Only the owner may delete a form.
//
// @Summary      Delete a form
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/forms/{id} [delete]
func (h *FormHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteForm(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return err
	}

	metrics.FormsMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Form deleted successfully"})
}
