package panel

import (
	"context"
	"fmt"
	"strconv"

	"gestao-alunos-go/models"
)

// Tab identifies one of the panel views
type Tab string

const (
	TabStudents   Tab = "alunos"
	TabCourses    Tab = "cursos"
	TabEnrollment Tab = "matricula"
)

var allTabs = []struct {
	id    Tab
	label string
}{
	{TabStudents, "Alunos"},
	{TabCourses, "Cursos"},
	{TabEnrollment, "Matrícula"},
}

// TabView is a tab button/panel pair as shown to the operator
type TabView struct {
	ID     Tab
	Label  string
	Active bool
}

var placeholderOption = SelectOption{Value: "", Label: "Selecione um curso"}

func tabViews(active Tab) []TabView {
	views := make([]TabView, len(allTabs))
	for i, t := range allTabs {
		views[i] = TabView{ID: t.id, Label: t.label, Active: t.id == active}
	}
	return views
}

// ParseTab validates a tab identifier
func ParseTab(id string) (Tab, error) {
	for _, t := range allTabs {
		if string(t.id) == id {
			return t.id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, id)
}

// ActivateTab makes tabID the only active tab and runs its refresh:
// students and courses reload their list plus statistics, enrollment
// rebuilds the course options from the cache without a network call.
// An unknown id is rejected and leaves the state untouched.
func (p *Panel) ActivateTab(ctx context.Context, tabID string) error {
	tab, err := ParseTab(tabID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.activeTab = tab
	p.mu.Unlock()

	switch tab {
	case TabStudents:
		p.RefreshStudents(ctx)
	case TabCourses:
		p.RefreshCourses(ctx)
	case TabEnrollment:
		p.RebuildCourseOptions()
	}
	return nil
}

// RefreshStudents reloads the student list and the statistics
func (p *Panel) RefreshStudents(ctx context.Context) {
	_ = p.loadStudents(ctx)
	_ = p.loadStatistics(ctx)
	p.Notify("Lista de alunos atualizada", SeverityInfo)
}

// RefreshCourses reloads the course list and the statistics
func (p *Panel) RefreshCourses(ctx context.Context) {
	_ = p.loadCourses(ctx)
	_ = p.loadStatistics(ctx)
	p.Notify("Lista de cursos atualizada", SeverityInfo)
}

// RebuildCourseOptions replaces every course option with one per cached
// course, keeping the empty placeholder first.
func (p *Panel) RebuildCourseOptions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = buildOptions(p.courses)
}

func buildOptions(courses []models.Course) []SelectOption {
	opts := make([]SelectOption, 0, len(courses)+1)
	opts = append(opts, placeholderOption)
	for _, c := range courses {
		opts = append(opts, SelectOption{Value: strconv.FormatInt(c.ID, 10), Label: c.Name})
	}
	return opts
}
