package panel

import (
	"context"
	"fmt"

	"gestao-alunos-go/gateway"
	"gestao-alunos-go/logger"
)

const msgDeleted = "Aluno excluído com sucesso!"

// DeletePrompt is the question put to the operator before deleting name
func DeletePrompt(name string) string {
	return fmt.Sprintf("Tem certeza que deseja excluir o aluno \"%s\"?", name)
}

// DeleteStudent removes a cached student after confirmation. Declining
// returns ErrDeclined with no side effects.
func (p *Panel) DeleteStudent(ctx context.Context, id int64, confirm Confirmer) error {
	student, ok := p.findStudent(id)
	if !ok {
		p.Notify(msgStudentNotFound, SeverityError)
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	if confirm == nil || !confirm.Confirm(DeletePrompt(student.Name)) {
		return ErrDeclined
	}

	p.beginLoading()
	defer p.endLoading()

	if err := p.gw.DeleteStudent(ctx, id); err != nil {
		p.notifyFailure("delete_student", gateway.MsgDeleteStudent, err)
		return err
	}
	logger.LogInfo("Student deleted", "id", id)

	p.Notify(msgDeleted, SeveritySuccess)
	_ = p.loadStudents(ctx)
	_ = p.loadStatistics(ctx)
	return nil
}

// StudentName returns the cached name of a student, for confirmation pages.
func (p *Panel) StudentName(id int64) (string, bool) {
	s, ok := p.findStudent(id)
	return s.Name, ok
}
