package models

// Course represents a course offered to students
type Course struct {
	ID             int64  `json:"id"`         // Server-assigned course ID
	Name           string `json:"nome_curso"` // Course name
	DurationMonths int    `json:"duracao"`    // Duration in months
}

// Student represents an enrolled student
type Student struct {
	ID         int64   `json:"id"`             // Server-assigned student ID
	Name       string  `json:"nome"`           // Student name
	Email      string  `json:"email"`          // Unique email address
	CourseID   *int64  `json:"curso_id"`       // Enrolled course, nil when unassigned
	CourseName *string `json:"curso_nome"`     // Denormalized course name for display
	EnrolledOn *string `json:"data_matricula"` // Enrollment date (YYYY-MM-DD)
}

// Statistics holds the aggregate counters served by the backend
type Statistics struct {
	TotalStudents int64 `json:"total_alunos"`
	TotalCourses  int64 `json:"total_cursos"`
}

// StudentPayload is the body of create and update requests.
// A nil CourseID is sent as null, which unassigns the course on update.
type StudentPayload struct {
	Name     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required"`
	CourseID *int64 `json:"curso_id"`
}

// ErrorBody is the body the backend returns when it rejects a request
type ErrorBody struct {
	Erro string `json:"erro"`
}
