// Package gateway is the typed HTTP client for the students REST API.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"gestao-alunos-go/metrics"
	"gestao-alunos-go/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client issues one request per call against a fixed base URL.
// It holds no state besides its configuration.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL (for example http://localhost:8080/api).
// A nil httpClient falls back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// BaseURL returns the API base the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchCourses handles GET /cursos
func (c *Client) FetchCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, "fetch_courses", http.MethodGet, "/cursos", nil, &courses, MsgLoadCourses); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// FetchStudents handles GET /alunos
func (c *Client) FetchStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, "fetch_students", http.MethodGet, "/alunos", nil, &students, MsgLoadStudents); err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// FetchStatistics handles GET /estatisticas
func (c *Client) FetchStatistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	err := c.do(ctx, "fetch_statistics", http.MethodGet, "/estatisticas", nil, &stats, MsgLoadStatistics)
	return stats, err
}

// CreateStudent handles POST /alunos
func (c *Client) CreateStudent(ctx context.Context, payload models.StudentPayload) (*models.Student, error) {
	var created models.Student
	if err := c.do(ctx, "create_student", http.MethodPost, "/alunos", payload, &created, MsgCreateStudent); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStudent handles PUT /alunos/{id}
func (c *Client) UpdateStudent(ctx context.Context, id int64, payload models.StudentPayload) (*models.Student, error) {
	var updated models.Student
	if err := c.do(ctx, "update_student", http.MethodPut, studentPath(id), payload, &updated, MsgUpdateStudent); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStudent handles DELETE /alunos/{id}. The success body is ignored.
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_student", http.MethodDelete, studentPath(id), nil, nil, MsgDeleteStudent)
}

func studentPath(id int64) string {
	return "/alunos/" + strconv.FormatInt(id, 10)
}

// do sends one request. A non-2xx answer becomes an *APIError; anything else
// that goes wrong (transport, decoding) is wrapped and returned as is.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, defaultMsg string) (err error) {
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = "failed"
			if _, ok := err.(*APIError); ok {
				outcome = "rejected"
			}
		}
		metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
	}()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: defaultMsg}
		var eb models.ErrorBody
		if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil && eb.Erro != "" {
			apiErr.Message = eb.Erro
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
