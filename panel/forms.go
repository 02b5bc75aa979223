package panel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"gestao-alunos-go/gateway"
	"gestao-alunos-go/logger"
	"gestao-alunos-go/models"
)

const (
	msgEnrollmentRequired = "Todos os campos são obrigatórios"
	msgEditRequired       = "Nome e email são obrigatórios"
	msgEnrolled           = "Aluno matriculado com sucesso!"
	msgUpdated            = "Aluno atualizado com sucesso!"
	msgStudentNotFound    = "Aluno não encontrado"
)

// EnrollmentForm holds the raw fields of the enrollment form
type EnrollmentForm struct {
	Name     string `form:"nome" validate:"required"`
	Email    string `form:"email" validate:"required"`
	CourseID string `form:"curso_id" validate:"required,number"`
}

// EditForm holds the raw fields of the edit form. An empty CourseID
// unassigns the student's course.
type EditForm struct {
	ID       int64  `form:"id"`
	Name     string `form:"nome" validate:"required"`
	Email    string `form:"email" validate:"required"`
	CourseID string `form:"curso_id" validate:"omitempty,number"`
}

func (f EnrollmentForm) trimmed() EnrollmentForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.CourseID = strings.TrimSpace(f.CourseID)
	return f
}

func (f EditForm) trimmed() EditForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.CourseID = strings.TrimSpace(f.CourseID)
	return f
}

func (f EnrollmentForm) payload(v *validator.Validate) (models.StudentPayload, error) {
	if err := v.Struct(f); err != nil {
		return models.StudentPayload{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	courseID, err := parseCourseID(f.CourseID)
	if err != nil || courseID == nil {
		return models.StudentPayload{}, fmt.Errorf("%w: curso_id %q", ErrInvalidForm, f.CourseID)
	}
	return models.StudentPayload{Name: f.Name, Email: f.Email, CourseID: courseID}, nil
}

func (f EditForm) payload(v *validator.Validate) (models.StudentPayload, error) {
	if err := v.Struct(f); err != nil {
		return models.StudentPayload{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	courseID, err := parseCourseID(f.CourseID)
	if err != nil {
		return models.StudentPayload{}, fmt.Errorf("%w: curso_id %q", ErrInvalidForm, f.CourseID)
	}
	return models.StudentPayload{Name: f.Name, Email: f.Email, CourseID: courseID}, nil
}

// parseCourseID returns nil for an empty field. Zero is not a valid id.
func parseCourseID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("course id must be positive, got %d", id)
	}
	return &id, nil
}

// SubmitEnrollment validates and submits the enrollment form. Invalid input
// raises a warning and issues no request. On success the form is cleared,
// students and statistics are re-fetched and the students tab is shown; on
// rejection the entered values stay in the form.
func (p *Panel) SubmitEnrollment(ctx context.Context, form EnrollmentForm) error {
	form = form.trimmed()
	payload, err := form.payload(p.validate)

	p.mu.Lock()
	p.enrollment = form
	p.enrollmentState = FormSubmitting
	if err != nil {
		p.enrollmentState = FormIdle
	}
	p.mu.Unlock()

	if err != nil {
		p.Notify(msgEnrollmentRequired, SeverityWarning)
		return err
	}

	p.beginLoading()
	defer p.endLoading()

	created, err := p.gw.CreateStudent(ctx, payload)
	if err != nil {
		p.mu.Lock()
		p.enrollmentState = FormRejected
		p.mu.Unlock()
		p.notifyFailure("create_student", gateway.MsgCreateStudent, err)
		return err
	}
	logger.LogInfo("Student enrolled", "id", created.ID, "course_id", *payload.CourseID)

	p.Notify(msgEnrolled, SeveritySuccess)
	p.mu.Lock()
	p.enrollment = EnrollmentForm{}
	p.enrollmentState = FormSucceeded
	p.mu.Unlock()

	_ = p.loadStudents(ctx)
	_ = p.loadStatistics(ctx)
	return p.ActivateTab(ctx, string(TabStudents))
}

// OpenEdit pre-fills the edit modal from the cached student. A student
// missing from the cache raises an error notification and the modal stays
// closed.
func (p *Panel) OpenEdit(id int64) error {
	student, ok := p.findStudent(id)
	if !ok {
		p.Notify(msgStudentNotFound, SeverityError)
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	form := EditForm{ID: student.ID, Name: student.Name, Email: student.Email}
	if student.CourseID != nil {
		form.CourseID = strconv.FormatInt(*student.CourseID, 10)
	}

	p.mu.Lock()
	p.options = buildOptions(p.courses)
	p.edit = EditModal{Open: true, Form: form, State: FormIdle}
	p.mu.Unlock()
	return nil
}

// CloseEdit hides the edit modal
func (p *Panel) CloseEdit() {
	p.mu.Lock()
	p.edit = EditModal{}
	p.mu.Unlock()
}

// SubmitEdit validates and submits the edit form. On success the modal is
// closed and the students re-fetched; on rejection the modal stays open
// with the entered values.
func (p *Panel) SubmitEdit(ctx context.Context, form EditForm) error {
	form = form.trimmed()
	payload, err := form.payload(p.validate)

	p.mu.Lock()
	p.edit.Form = form
	p.edit.State = FormSubmitting
	if err != nil {
		p.edit.State = FormIdle
	}
	p.mu.Unlock()

	if err != nil {
		p.Notify(msgEditRequired, SeverityWarning)
		return err
	}

	p.beginLoading()
	defer p.endLoading()

	if _, err := p.gw.UpdateStudent(ctx, form.ID, payload); err != nil {
		p.mu.Lock()
		p.edit.State = FormRejected
		p.mu.Unlock()
		p.notifyFailure("update_student", gateway.MsgUpdateStudent, err)
		return err
	}
	logger.LogInfo("Student updated", "id", form.ID)

	p.Notify(msgUpdated, SeveritySuccess)
	p.CloseEdit()
	_ = p.loadStudents(ctx)
	return nil
}
