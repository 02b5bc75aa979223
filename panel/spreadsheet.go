package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gestao-alunos-go/logger"
	"gestao-alunos-go/models"
)

const exportSheet = "Alunos"

// ImportResult summarises a spreadsheet import
type ImportResult struct {
	Imported int
	Skipped  int // rows missing a field or with a malformed course id
	Failed   int // rows the backend rejected
}

// ImportSpreadsheet enrolls one student per row of the first sheet of an
// xlsx workbook. The first row is a header; columns are nome, email and
// curso_id. Invalid rows are skipped and rejected rows are counted, neither
// stops the import. Students and statistics are re-fetched afterwards.
func (p *Panel) ImportSpreadsheet(ctx context.Context, r io.Reader) (ImportResult, error) {
	var result ImportResult

	rows, err := readFirstSheet(r)
	if err != nil {
		logger.LogError("Failed to read spreadsheet", err)
		p.Notify("Erro ao ler planilha", SeverityError)
		return result, err
	}

	p.beginLoading()
	defer p.endLoading()

	for i, row := range rows {
		if i == 0 {
			continue // header row
		}

		form := EnrollmentForm{
			Name:     cell(row, 0),
			Email:    cell(row, 1),
			CourseID: cell(row, 2),
		}.trimmed()
		payload, err := form.payload(p.validate)
		if err != nil {
			logger.LogDebug("Skipping spreadsheet row", "row", i+1, "error", err)
			result.Skipped++
			continue
		}

		if _, err := p.gw.CreateStudent(ctx, payload); err != nil {
			logger.LogWarn("Spreadsheet row rejected", "row", i+1, "email", payload.Email, "error", err)
			result.Failed++
			continue
		}
		result.Imported++
	}

	logger.LogInfo("Spreadsheet import finished", "imported", result.Imported, "skipped", result.Skipped, "failed", result.Failed)

	severity := SeveritySuccess
	if result.Skipped > 0 || result.Failed > 0 {
		severity = SeverityWarning
	}
	p.Notify(fmt.Sprintf("%d alunos importados, %d ignorados, %d recusados", result.Imported, result.Skipped, result.Failed), severity)

	_ = p.loadStudents(ctx)
	_ = p.loadStatistics(ctx)
	return result, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.LogError("Failed to close excel file", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// ExportSpreadsheet writes the cached student list to w as an xlsx workbook
func (p *Panel) ExportSpreadsheet(w io.Writer) error {
	p.mu.Lock()
	students := append([]models.Student(nil), p.students...)
	p.mu.Unlock()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.LogError("Failed to close excel file", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"ID", "Nome", "Email", "Curso", "Data de matrícula"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range students {
		row := []any{s.ID, s.Name, s.Email, CourseLabel(s.CourseName), FormatDate(s.EnrolledOn)}
		if err := f.SetSheetRow(exportSheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
