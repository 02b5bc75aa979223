package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestao-alunos-go/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	service := db.NewRedisService(client)
	_, err := service.SeedCourses(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(NewAPIRouter(NewAPIHandler(service)))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestAPICourses(t *testing.T) {
	srv := newAPIServer(t)

	status, body := call(t, srv, http.MethodGet, "/api/cursos", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"nome_curso":"Gestão de TI","duracao":24},{"id":2,"nome_curso":"Desenvolvimento de Sistemas","duracao":18}]`, body)
}

func TestAPIStudentLifecycle(t *testing.T) {
	srv := newAPIServer(t)

	status, body := call(t, srv, http.MethodGet, "/api/alunos", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	status, body = call(t, srv, http.MethodPost, "/api/alunos", `{"nome":"Ana","email":"ana@x.com","curso_id":1}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Contains(t, body, `"curso_nome":"Gestão de TI"`)

	status, body = call(t, srv, http.MethodPut, "/api/alunos/1", `{"nome":"Ana Maria","email":"ana@x.com","curso_id":null}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Contains(t, body, `"curso_id":null`)

	status, body = call(t, srv, http.MethodGet, "/api/estatisticas", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"total_alunos":1,"total_cursos":2}`, body)

	status, body = call(t, srv, http.MethodDelete, "/api/alunos/1", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
}

func TestAPIRejections(t *testing.T) {
	srv := newAPIServer(t)
	status, _ := call(t, srv, http.MethodPost, "/api/alunos", `{"nome":"Ana","email":"ana@x.com","curso_id":1}`)
	require.Equal(t, http.StatusCreated, status)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantErro   string
	}{
		{"missing course", http.MethodPost, "/api/alunos", `{"nome":"B","email":"b@x.com"}`, http.StatusBadRequest, "Nome, email e curso_id são obrigatórios"},
		{"missing name", http.MethodPost, "/api/alunos", `{"email":"b@x.com","curso_id":1}`, http.StatusBadRequest, "Nome, email e curso_id são obrigatórios"},
		{"unknown course", http.MethodPost, "/api/alunos", `{"nome":"B","email":"b@x.com","curso_id":9}`, http.StatusNotFound, "Curso não encontrado"},
		{"duplicate email", http.MethodPost, "/api/alunos", `{"nome":"B","email":"ana@x.com","curso_id":1}`, http.StatusBadRequest, "Email já cadastrado"},
		{"update unknown", http.MethodPut, "/api/alunos/77", `{"nome":"B","email":"b@x.com","curso_id":null}`, http.StatusNotFound, "Aluno não encontrado"},
		{"update bad id", http.MethodPut, "/api/alunos/abc", `{"nome":"B","email":"b@x.com"}`, http.StatusBadRequest, "ID de aluno inválido"},
		{"delete unknown", http.MethodDelete, "/api/alunos/77", "", http.StatusNotFound, "Aluno não encontrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.JSONEq(t, `{"erro":"`+tt.wantErro+`"}`, body)
		})
	}
}
