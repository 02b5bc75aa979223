package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestao-alunos-go/models"
	"gestao-alunos-go/panel"
)

func strPtr(s string) *string { return &s }

func TestStudentRowsEmpty(t *testing.T) {
	out, err := Render("student-rows", []models.Student{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "<tr"))
	assert.Contains(t, out, `colspan="6"`)
	assert.Contains(t, out, "Nenhum aluno matriculado")
}

func TestStudentRowsKeepOrder(t *testing.T) {
	courseID := int64(1)
	students := []models.Student{
		{ID: 5, Name: "Zeca", Email: "z@x.com", CourseID: &courseID, CourseName: strPtr("Gestão de TI"), EnrolledOn: strPtr("2024-03-05")},
		{ID: 2, Name: "Ana", Email: "a@x.com"},
		{ID: 9, Name: "Maria", Email: "m@x.com"},
	}

	out, err := Render("student-rows", students)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "<tr"))
	assert.NotContains(t, out, "Nenhum aluno matriculado")

	zeca, ana, maria := strings.Index(out, "Zeca"), strings.Index(out, "Ana"), strings.Index(out, "Maria")
	assert.True(t, zeca < ana && ana < maria, "rows out of order")
	assert.Contains(t, out, "05/03/2024")
	assert.Contains(t, out, "Gestão de TI")
	assert.Contains(t, out, "Não definido")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, `href="/alunos/9/excluir"`)
}

func TestStudentRowsEscapeFields(t *testing.T) {
	out, err := Render("student-rows", []models.Student{
		{ID: 1, Name: `<script>alert(1)</script>`, Email: `"onmouseover="x`},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, `"onmouseover="`)
}

func TestCourseCards(t *testing.T) {
	out, err := Render("course-cards", []models.Course{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "empty-state"))
	assert.Contains(t, out, "Nenhum curso encontrado")

	out, err = Render("course-cards", []models.Course{
		{ID: 1, Name: "Gestão de TI", DurationMonths: 24},
		{ID: 2, Name: "Desenvolvimento de Sistemas", DurationMonths: 18},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, `class="course-card"`))
	assert.Contains(t, out, "24 meses")
	assert.NotContains(t, out, "Nenhum curso encontrado")
}

func TestCourseOptionsKeepPlaceholderAndSelection(t *testing.T) {
	out, err := Render("course-options", OptionsView{
		Options: []panel.SelectOption{
			{Value: "", Label: "Selecione um curso"},
			{Value: "1", Label: "Gestão de TI"},
			{Value: "2", Label: "Desenvolvimento de Sistemas"},
		},
		Selected: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "<option"))
	assert.True(t, strings.Index(out, `value=""`) < strings.Index(out, `value="1"`))
	assert.Contains(t, out, `<option value="2" selected>`)
	assert.NotContains(t, out, `<option value="1" selected>`)
}

func TestToasts(t *testing.T) {
	out, err := Render("toasts", []panel.Notification{
		{ID: "a", Message: "Aluno matriculado com sucesso!", Severity: panel.SeveritySuccess, Icon: panel.SeveritySuccess.Icon()},
		{ID: "b", Message: "<b>x</b>", Severity: panel.SeverityError, Icon: panel.SeverityError.Icon()},
	})
	require.NoError(t, err)
	assert.Contains(t, out, `class="toast success"`)
	assert.Contains(t, out, `action="/toasts/b/fechar"`)
	assert.Contains(t, out, "fas fa-exclamation-circle")
	assert.NotContains(t, out, "<b>x</b>")
}

func TestPageMarksOneActiveTab(t *testing.T) {
	p := panel.New(nil)
	page := Page{Snapshot: p.Snapshot()}

	out, err := Render("page", page)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "tab-button active"))
	assert.Equal(t, 1, strings.Count(out, "tab-content active"))
	assert.Contains(t, out, `<section id="alunos" class="tab-content active">`)
	assert.NotContains(t, out, `id="editModal"`)
	assert.NotContains(t, out, `id="confirmDialog"`)
}

func TestPageShowsConfirmDialog(t *testing.T) {
	page := Page{
		Snapshot: panel.New(nil).Snapshot(),
		Confirm:  &Confirm{StudentID: 3, Prompt: panel.DeletePrompt("Bruno")},
	}

	out, err := Render("page", page)
	require.NoError(t, err)
	assert.Contains(t, out, `id="confirmDialog"`)
	assert.Contains(t, out, `action="/alunos/3/excluir"`)
	assert.Contains(t, out, "Tem certeza que deseja excluir o aluno &#34;Bruno&#34;?")
}

func TestPageWithOpenModalAndToastsDoesNotReload(t *testing.T) {
	p := panel.New(nil)
	p.Notify("Email já cadastrado", panel.SeverityError)
	page := Page{Snapshot: p.Snapshot()}
	page.Edit = panel.EditModal{Open: true, Form: panel.EditForm{ID: 1, Name: "Ana", Email: "corrigido@x.com"}}

	out, err := Render("page", page)
	require.NoError(t, err)
	assert.Contains(t, out, `id="editModal"`)
	assert.Contains(t, out, `value="corrigido@x.com"`)
	assert.Contains(t, out, "Email já cadastrado")
	assert.NotContains(t, out, `http-equiv="refresh"`)
	assert.Contains(t, out, "#toastContainer .toast")
}
