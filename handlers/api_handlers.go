package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gestao-alunos-go/db"
	"gestao-alunos-go/logger"
	"gestao-alunos-go/models"
)

// APIHandler serves the students REST API on top of the Redis service
type APIHandler struct {
	RedisService *db.RedisService
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(service *db.RedisService) *APIHandler {
	return &APIHandler{
		RedisService: service,
	}
}

// RegisterRoutes mounts the API under group
func (h *APIHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/cursos", h.GetAllCourses)
	api.GET("/alunos", h.GetAllStudents)
	api.POST("/alunos", h.CreateStudent)
	api.PUT("/alunos/:id", h.UpdateStudent)
	api.DELETE("/alunos/:id", h.DeleteStudent)
	api.GET("/estatisticas", h.GetStatistics)
	api.GET("/ping", PingHandler)
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, models.ErrorBody{Erro: msg})
}

// --- Course Handlers ---

// GetAllCourses handles GET /api/cursos
func (h *APIHandler) GetAllCourses(c *gin.Context) {
	courses, err := h.RedisService.GetAllCourses(c.Request.Context())
	if err != nil {
		logger.LogError("Error in GetAllCourses handler", err)
		fail(c, http.StatusInternalServerError, "Erro ao carregar cursos")
		return
	}
	c.JSON(http.StatusOK, courses)
}

// --- Student Handlers ---

// GetAllStudents handles GET /api/alunos
func (h *APIHandler) GetAllStudents(c *gin.Context) {
	students, err := h.RedisService.GetAllStudents(c.Request.Context())
	if err != nil {
		logger.LogError("Error in GetAllStudents handler", err)
		fail(c, http.StatusInternalServerError, "Erro ao carregar alunos")
		return
	}
	c.JSON(http.StatusOK, students)
}

// CreateStudent handles POST /api/alunos
func (h *APIHandler) CreateStudent(c *gin.Context) {
	var payload models.StudentPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.CourseID == nil {
		fail(c, http.StatusBadRequest, "Nome, email e curso_id são obrigatórios")
		return
	}

	student, err := h.RedisService.CreateStudent(c.Request.Context(), payload)
	if err != nil {
		h.storeError(c, "CreateStudent", err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

// UpdateStudent handles PUT /api/alunos/:id
func (h *APIHandler) UpdateStudent(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	var payload models.StudentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "Nome e email são obrigatórios")
		return
	}

	student, err := h.RedisService.UpdateStudent(c.Request.Context(), id, payload)
	if err != nil {
		h.storeError(c, "UpdateStudent", err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudent handles DELETE /api/alunos/:id
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	if err := h.RedisService.DeleteStudent(c.Request.Context(), id); err != nil {
		h.storeError(c, "DeleteStudent", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStatistics handles GET /api/estatisticas
func (h *APIHandler) GetStatistics(c *gin.Context) {
	stats, err := h.RedisService.Statistics(c.Request.Context())
	if err != nil {
		logger.LogError("Error in GetStatistics handler", err)
		fail(c, http.StatusInternalServerError, "Erro ao carregar estatísticas")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func studentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "ID de aluno inválido")
		return 0, false
	}
	return id, true
}

func (h *APIHandler) storeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		fail(c, http.StatusNotFound, "Aluno não encontrado")
	case errors.Is(err, db.ErrCourseNotFound):
		fail(c, http.StatusNotFound, "Curso não encontrado")
	case errors.Is(err, db.ErrEmailTaken):
		fail(c, http.StatusBadRequest, "Email já cadastrado")
	default:
		logger.LogError("Error in "+op+" handler", err)
		fail(c, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
