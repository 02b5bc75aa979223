package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gestao-alunos-go/logger"
	"gestao-alunos-go/panel"
	"gestao-alunos-go/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PanelHandler serves the admin panel pages and form actions
type PanelHandler struct {
	Panel *panel.Panel
}

// NewPanelHandler creates a new PanelHandler
func NewPanelHandler(p *panel.Panel) *PanelHandler {
	return &PanelHandler{Panel: p}
}

// NewPanelRouter builds the gin engine for the panel, with templates and
// a /metrics endpoint served from gatherer.
func NewPanelRouter(h *PanelHandler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery())
	router.SetHTMLTemplate(render.Templates())

	router.GET("/", h.Index)
	router.POST("/tabs/:tab", h.ActivateTab)
	router.POST("/alunos/refresh", h.RefreshStudents)
	router.POST("/cursos/refresh", h.RefreshCourses)
	router.POST("/matricula", h.SubmitEnrollment)
	router.GET("/alunos/:id/editar", h.OpenEdit)
	router.POST("/alunos/:id", h.SubmitEdit)
	router.POST("/modal/fechar", h.CloseEdit)
	router.GET("/alunos/:id/excluir", h.ConfirmDelete)
	router.POST("/alunos/:id/excluir", h.DeleteStudent)
	router.POST("/toasts/:id/fechar", h.DismissToast)
	router.POST("/importar", h.ImportSpreadsheet)
	router.GET("/exportar", h.ExportSpreadsheet)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.GET("/ping", PingHandler)
	return router
}

func backHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// Index handles GET /
func (h *PanelHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "page", render.Page{Snapshot: h.Panel.Snapshot()})
}

// ActivateTab handles POST /tabs/:tab
func (h *PanelHandler) ActivateTab(c *gin.Context) {
	if err := h.Panel.ActivateTab(c.Request.Context(), c.Param("tab")); err != nil {
		logger.LogWarn("Rejected tab activation", "tab", c.Param("tab"))
		c.String(http.StatusNotFound, err.Error())
		return
	}
	backHome(c)
}

// RefreshStudents handles POST /alunos/refresh
func (h *PanelHandler) RefreshStudents(c *gin.Context) {
	h.Panel.RefreshStudents(c.Request.Context())
	backHome(c)
}

// RefreshCourses handles POST /cursos/refresh
func (h *PanelHandler) RefreshCourses(c *gin.Context) {
	h.Panel.RefreshCourses(c.Request.Context())
	backHome(c)
}

// SubmitEnrollment handles POST /matricula
func (h *PanelHandler) SubmitEnrollment(c *gin.Context) {
	var form panel.EnrollmentForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	// Outcome is reported through notifications on the page
	_ = h.Panel.SubmitEnrollment(c.Request.Context(), form)
	backHome(c)
}

// OpenEdit handles GET /alunos/:id/editar
func (h *PanelHandler) OpenEdit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	_ = h.Panel.OpenEdit(id)
	backHome(c)
}

// SubmitEdit handles POST /alunos/:id
func (h *PanelHandler) SubmitEdit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form panel.EditForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	form.ID = id
	_ = h.Panel.SubmitEdit(c.Request.Context(), form)
	backHome(c)
}

// CloseEdit handles POST /modal/fechar
func (h *PanelHandler) CloseEdit(c *gin.Context) {
	h.Panel.CloseEdit()
	backHome(c)
}

// ConfirmDelete handles GET /alunos/:id/excluir by rendering the page with
// the confirmation dialog. Unknown students go through DeleteStudent so the
// operator gets the usual not-found notification.
func (h *PanelHandler) ConfirmDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	name, found := h.Panel.StudentName(id)
	if !found {
		_ = h.Panel.DeleteStudent(c.Request.Context(), id, nil)
		backHome(c)
		return
	}
	c.HTML(http.StatusOK, "page", render.Page{
		Snapshot: h.Panel.Snapshot(),
		Confirm:  &render.Confirm{StudentID: id, Prompt: panel.DeletePrompt(name)},
	})
}

// DeleteStudent handles POST /alunos/:id/excluir; confirmar=sim confirms
func (h *PanelHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	confirmed := c.PostForm("confirmar") == "sim"
	_ = h.Panel.DeleteStudent(c.Request.Context(), id, panel.ConfirmFunc(func(string) bool { return confirmed }))
	backHome(c)
}

// DismissToast handles POST /toasts/:id/fechar
func (h *PanelHandler) DismissToast(c *gin.Context) {
	h.Panel.Dismiss(c.Param("id"))
	backHome(c)
}

// ImportSpreadsheet handles POST /importar with an xlsx file in "arquivo"
func (h *PanelHandler) ImportSpreadsheet(c *gin.Context) {
	file, header, err := c.Request.FormFile("arquivo")
	if err != nil {
		logger.LogWarn("Spreadsheet upload without file", "error", err)
		h.Panel.Notify("Selecione uma planilha para importar", panel.SeverityWarning)
		backHome(c)
		return
	}
	defer file.Close()

	logger.LogInfo("Received spreadsheet upload", "filename", header.Filename)
	_, _ = h.Panel.ImportSpreadsheet(c.Request.Context(), file)
	backHome(c)
}

// ExportSpreadsheet handles GET /exportar
func (h *PanelHandler) ExportSpreadsheet(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="alunos.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := h.Panel.ExportSpreadsheet(c.Writer); err != nil {
		logger.LogError("Failed to export spreadsheet", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
