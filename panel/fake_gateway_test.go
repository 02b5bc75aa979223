package panel

import (
	"context"
	"sync"

	"gestao-alunos-go/models"
)

// fakeGateway is an in-memory Gateway that records every call
type fakeGateway struct {
	mu       sync.Mutex
	calls    []string
	students []models.Student
	courses  []models.Course
	stats    models.Statistics
	nextID   int64

	fetchStudentsErr error
	fetchCoursesErr  error
	fetchStatsErr    error
	createErr        error
	updateErr        error
	deleteErr        error

	created []models.StudentPayload
	updated map[int64]models.StudentPayload
}

func newFakeGateway() *fakeGateway {
	name := "Gestão de TI"
	courseID := int64(1)
	date := "2024-03-05"
	return &fakeGateway{
		courses: []models.Course{
			{ID: 1, Name: "Gestão de TI", DurationMonths: 24},
			{ID: 2, Name: "Desenvolvimento de Sistemas", DurationMonths: 18},
		},
		students: []models.Student{
			{ID: 1, Name: "Ana", Email: "ana@example.com", CourseID: &courseID, CourseName: &name, EnrolledOn: &date},
			{ID: 2, Name: "Bruno", Email: "bruno@example.com"},
		},
		stats:   models.Statistics{TotalStudents: 2, TotalCourses: 2},
		nextID:  3,
		updated: map[int64]models.StudentPayload{},
	}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeGateway) FetchCourses(ctx context.Context) ([]models.Course, error) {
	f.record("FetchCourses")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchCoursesErr != nil {
		return nil, f.fetchCoursesErr
	}
	return append([]models.Course{}, f.courses...), nil
}

func (f *fakeGateway) FetchStudents(ctx context.Context) ([]models.Student, error) {
	f.record("FetchStudents")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchStudentsErr != nil {
		return nil, f.fetchStudentsErr
	}
	return append([]models.Student{}, f.students...), nil
}

func (f *fakeGateway) FetchStatistics(ctx context.Context) (models.Statistics, error) {
	f.record("FetchStatistics")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchStatsErr != nil {
		return models.Statistics{}, f.fetchStatsErr
	}
	return models.Statistics{TotalStudents: int64(len(f.students)), TotalCourses: int64(len(f.courses))}, nil
}

func (f *fakeGateway) CreateStudent(ctx context.Context, payload models.StudentPayload) (*models.Student, error) {
	f.record("CreateStudent")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payload)
	s := models.Student{ID: f.nextID, Name: payload.Name, Email: payload.Email, CourseID: payload.CourseID}
	f.nextID++
	f.students = append(f.students, s)
	return &s, nil
}

func (f *fakeGateway) UpdateStudent(ctx context.Context, id int64, payload models.StudentPayload) (*models.Student, error) {
	f.record("UpdateStudent")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated[id] = payload
	for i := range f.students {
		if f.students[i].ID == id {
			f.students[i].Name = payload.Name
			f.students[i].Email = payload.Email
			f.students[i].CourseID = payload.CourseID
			s := f.students[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeGateway) DeleteStudent(ctx context.Context, id int64) error {
	f.record("DeleteStudent")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.students {
		if f.students[i].ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			break
		}
	}
	return nil
}
