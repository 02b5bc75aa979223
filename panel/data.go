package panel

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"gestao-alunos-go/gateway"
	"gestao-alunos-go/logger"
)

// Bootstrap loads courses, students and statistics concurrently, waits for
// all three to settle, hides the loading indicator and then activates the
// students tab, which runs that tab's own refresh. Individual load failures
// are reported as notifications and do not abort the others.
func (p *Panel) Bootstrap(ctx context.Context) {
	p.loadAll(ctx)
	_ = p.ActivateTab(ctx, string(TabStudents))
}

func (p *Panel) loadAll(ctx context.Context) {
	p.beginLoading()
	defer p.endLoading()

	var g errgroup.Group
	g.Go(func() error { _ = p.loadCourses(ctx); return nil })
	g.Go(func() error { _ = p.loadStudents(ctx); return nil })
	g.Go(func() error { _ = p.loadStatistics(ctx); return nil })
	_ = g.Wait()
}

func (p *Panel) loadStudents(ctx context.Context) error {
	students, err := p.gw.FetchStudents(ctx)
	if err != nil {
		logger.LogError("Failed to load students", err)
		p.Notify(gateway.MsgLoadStudents, SeverityError)
		return err
	}
	p.mu.Lock()
	p.students = students
	p.mu.Unlock()
	return nil
}

func (p *Panel) loadCourses(ctx context.Context) error {
	courses, err := p.gw.FetchCourses(ctx)
	if err != nil {
		logger.LogError("Failed to load courses", err)
		p.Notify(gateway.MsgLoadCourses, SeverityError)
		return err
	}
	p.mu.Lock()
	p.courses = courses
	p.mu.Unlock()
	return nil
}

// Statistics failures are only logged; the previous counters stay on screen.
func (p *Panel) loadStatistics(ctx context.Context) error {
	stats, err := p.gw.FetchStatistics(ctx)
	if err != nil {
		logger.LogError("Failed to load statistics", err)
		return err
	}
	p.mu.Lock()
	p.stats = stats
	p.mu.Unlock()
	return nil
}

// notifyFailure shows a rejected or failed mutation. Backend rejections
// carry their own message; anything unexpected is logged and shown with
// the operation's generic message.
func (p *Panel) notifyFailure(op string, fallback string, err error) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		logger.LogWarn("Backend rejected request", "operation", op, "status", apiErr.Status, "message", apiErr.Message)
		p.Notify(apiErr.Message, SeverityError)
		return
	}
	logger.LogError("Request failed", err, "operation", op)
	p.Notify(fallback, SeverityError)
}
