package gateway

import "fmt"

// Default messages used when the backend rejects a call without an "erro" field.
const (
	MsgLoadCourses    = "Erro ao carregar cursos"
	MsgLoadStudents   = "Erro ao carregar alunos"
	MsgLoadStatistics = "Erro ao carregar estatísticas"
	MsgCreateStudent  = "Erro ao matricular aluno"
	MsgUpdateStudent  = "Erro ao atualizar aluno"
	MsgDeleteStudent  = "Erro ao excluir aluno"
)

// APIError is returned when the backend answers with a non-2xx status.
// Message carries the backend's "erro" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}
