package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enkelbok/enkelbok/internal/apperrors"
	portssvc "github.com/enkelbok/enkelbok/internal/core/ports/services"
	"github.com/enkelbok/enkelbok/internal/dto"
	"github.com/enkelbok/enkelbok/internal/middleware"
)

// templateHandler handles HTTP requests related to chart-of-accounts templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

// newTemplateHandler creates a new templateHandler.
func newTemplateHandler(templateService portssvc.TemplateSvcFacade) *templateHandler {
	return &templateHandler{templateService: templateService}
}

// registerTemplateRoutes registers template routes.
func registerTemplateRoutes(group *gin.RouterGroup, templateService portssvc.TemplateSvcFacade) {
	h := newTemplateHandler(templateService)

	templates := group.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
		templates.DELETE("/:templateID", h.deleteTemplate)
	}
}

// createTemplate godoc
// @Summary Create a chart-of-accounts template
// @Tags templates
// @Accept json
// @Produce json
// @Param template body dto.CreateTemplateRequest true "Template"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /templates [post]
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create template", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create template"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

// listTemplates godoc
// @Summary List chart-of-accounts templates
// @Tags templates
// @Produce json
// @Success 200 {array} dto.TemplateResponse
// @Failure 500 {object} ErrorResponse
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list templates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponses(templates))
}

// getTemplate godoc
// @Summary Get a chart-of-accounts template
// @Tags templates
// @Produce json
// @Param templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /templates/{templateID} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	template, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Template not found"})
			return
		}
		logger.Error("Failed to get template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve template"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// deleteTemplate godoc
// @Summary Delete a chart-of-accounts template
// @Description Deletes a custom template. Locked default templates are refused.
// @Tags templates
// @Produce json
// @Param templateID path string true "Template ID"
// @Success 204
// @Failure 403 {object} ErrorResponse "Template is locked"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /templates/{templateID} [delete]
func (h *templateHandler) deleteTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("templateID")

	err := h.templateService.DeleteTemplate(c.Request.Context(), templateID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Template not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Template is locked and cannot be deleted"})
		default:
			logger.Error("Failed to delete template", slog.String("error", err.Error()), slog.String("template_id", templateID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete template"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
