package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/ora-projects/internal/api/middleware"
	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Project Handler
// ============================================

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// List - Active projects the caller manages or belongs to
// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListArchived - Archived projects the caller manages or belongs to
// GET /projects/archive
func (h *ProjectHandler) ListArchived(c *gin.Context) {
	h.list(c, true)
}

func (h *ProjectHandler) list(c *gin.Context, archived bool) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	list, err := h.projectService.List(c.Request.Context(), identity, archived)
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.ProjectListResponse{
		Archived: list.Archived,
		Managed:  make([]models.ProjectResponse, 0, len(list.Managed)),
		Member:   make([]models.ProjectResponse, 0, len(list.Member)),
	}
	for _, p := range list.Managed {
		response.Managed = append(response.Managed, toProjectResponse(p))
	}
	for _, m := range list.Member {
		resp := toProjectResponse(m.Project)
		if m.Manager != nil {
			manager := toUserSummary(m.Manager)
			resp.Manager = &manager
		}
		response.Member = append(response.Member, resp)
	}

	c.JSON(http.StatusOK, response)
}

// NewForm - Users that can be placed on a new project's team
// GET /projects/new
func (h *ProjectHandler) NewForm(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	candidates, err := h.projectService.NewForm(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProjectFormResponse{Candidates: toUserSummaries(candidates)})
}

// Create - Create a project managed by the caller
// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	form, ok := bindProjectForm(c)
	if !ok {
		return
	}

	id, err := h.projectService.Create(c.Request.Context(), identity, form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Get - Project detail with manager and team resolved
// GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	detail, err := h.projectService.View(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	project := toProjectResponse(detail.Project)
	if detail.Manager != nil {
		manager := toUserSummary(detail.Manager)
		project.Manager = &manager
	}

	c.JSON(http.StatusOK, models.ProjectDetailResponse{
		Project: project,
		Role:    detail.Role,
		Team:    toUserSummaries(detail.Team),
	})
}

// EditForm - Current values plus the fields the caller may change
// GET /projects/:id/edit
func (h *ProjectHandler) EditForm(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	edit, err := h.projectService.EditForm(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := models.ProjectEditResponse{
		Project: toProjectResponse(edit.Project),
		Role:    edit.Permission.Role,
		Fields:  edit.Permission.Fields,
	}
	if edit.Candidates != nil {
		response.Candidates = toUserSummaries(edit.Candidates)
	}

	c.JSON(http.StatusOK, response)
}

// Update - Apply the fields the caller's role permits
// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	form, ok := bindProjectForm(c)
	if !ok {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), identity, c.Param("id"), form)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete - Permanently remove a project (manager only)
// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.projectService.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

// bindProjectForm accepts urlencoded, multipart or JSON bodies.
func bindProjectForm(c *gin.Context) (models.ProjectForm, bool) {
	var form models.ProjectForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return form, false
	}
	return form, true
}
