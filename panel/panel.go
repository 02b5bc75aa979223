// Package panel holds the state of the students admin panel and the
// operations an operator can trigger on it. Rendering and HTTP live
// elsewhere; everything here works against the Gateway interface.
package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"gestao-alunos-go/models"
)

var (
	ErrUnknownTab  = errors.New("unknown tab")
	ErrNotFound    = errors.New("student not found in cache")
	ErrInvalidForm = errors.New("invalid form")
	ErrDeclined    = errors.New("confirmation declined")
)

// Gateway is the subset of the REST API the panel talks to.
type Gateway interface {
	FetchCourses(ctx context.Context) ([]models.Course, error)
	FetchStudents(ctx context.Context) ([]models.Student, error)
	FetchStatistics(ctx context.Context) (models.Statistics, error)
	CreateStudent(ctx context.Context, payload models.StudentPayload) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, payload models.StudentPayload) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// Confirmer asks the operator a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// FormState tracks a form through Idle -> Submitting -> Succeeded|Rejected
type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
	FormSucceeded
	FormRejected
)

func (s FormState) String() string {
	switch s {
	case FormSubmitting:
		return "submitting"
	case FormSucceeded:
		return "succeeded"
	case FormRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// SelectOption is one entry of a course selection control
type SelectOption struct {
	Value string
	Label string
}

// EditModal is the state of the edit dialog
type EditModal struct {
	Open  bool
	Form  EditForm
	State FormState
}

// Snapshot is a copy of the panel state taken under lock, safe to render.
type Snapshot struct {
	ActiveTab       Tab
	Tabs            []TabView
	Students        []models.Student
	Courses         []models.Course
	Stats           models.Statistics
	CourseOptions   []SelectOption
	Enrollment      EnrollmentForm
	EnrollmentState FormState
	Edit            EditModal
	Loading         bool
	Notifications   []Notification
}

// Panel is the application state object. All operations are safe to call
// from concurrent HTTP handlers; network calls run without holding the lock
// and each successful fetch replaces its list wholesale, so the last
// response to arrive wins.
type Panel struct {
	gw       Gateway
	validate *validator.Validate
	notes    *notifier

	mu              sync.Mutex
	activeTab       Tab
	students        []models.Student
	courses         []models.Course
	stats           models.Statistics
	options         []SelectOption
	enrollment      EnrollmentForm
	enrollmentState FormState
	edit            EditModal
	loading         int
}

// Option configures a Panel
type Option func(*Panel)

// WithToastTTL overrides how long notifications stay up
func WithToastTTL(d time.Duration) Option {
	return func(p *Panel) { p.notes = newNotifier(d) }
}

// New creates a Panel on top of gw with empty caches and the students tab active.
func New(gw Gateway, opts ...Option) *Panel {
	p := &Panel{
		gw:        gw,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		notes:     newNotifier(DefaultToastTTL),
		activeTab: TabStudents,
		students:  []models.Student{},
		courses:   []models.Course{},
		options:   []SelectOption{placeholderOption},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Notify shows a toast. An empty severity means success.
func (p *Panel) Notify(message string, severity Severity) Notification {
	return p.notes.add(message, severity)
}

// Dismiss removes a toast before its timer fires. It reports whether the
// toast was still present.
func (p *Panel) Dismiss(id string) bool {
	return p.notes.dismiss(id)
}

// Snapshot returns a copy of the current state
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	s := Snapshot{
		ActiveTab:       p.activeTab,
		Tabs:            tabViews(p.activeTab),
		Students:        append([]models.Student(nil), p.students...),
		Courses:         append([]models.Course(nil), p.courses...),
		Stats:           p.stats,
		CourseOptions:   append([]SelectOption(nil), p.options...),
		Enrollment:      p.enrollment,
		EnrollmentState: p.enrollmentState,
		Edit:            p.edit,
		Loading:         p.loading > 0,
	}
	p.mu.Unlock()
	s.Notifications = p.notes.list()
	return s
}

func (p *Panel) beginLoading() {
	p.mu.Lock()
	p.loading++
	p.mu.Unlock()
}

func (p *Panel) endLoading() {
	p.mu.Lock()
	if p.loading > 0 {
		p.loading--
	}
	p.mu.Unlock()
}

func (p *Panel) findStudent(id int64) (models.Student, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.students {
		if s.ID == id {
			return s, true
		}
	}
	return models.Student{}, false
}
