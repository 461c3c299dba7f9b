package candidacysrv

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"github.com/youssef9656/server/recruitment/candidacy"
)

type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", candidacy.ErrInvalidExportFormat().WithDetail("format", raw)
	}
}

func (f ExportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export is a rendered listing ready to be sent as an attachment
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

type exportRow struct {
	LastName    string `csv:"Nom"`
	FirstName   string `csv:"Prénom"`
	Email       string `csv:"Email"`
	Phone       string `csv:"Téléphone"`
	BirthDate   string `csv:"Date de naissance"`
	Nationality string `csv:"Nationalité"`
	Degrees     string `csv:"Diplômes"`
	CurrentJob  string `csv:"Emploi actuel"`
	Domains     string `csv:"Domaines"`
	Status      string `csv:"Statut"`
	CreatedAt   string `csv:"Date de création"`
	EmailsSent  int    `csv:"Emails envoyés"`
	CVFileName  string `csv:"CV"`
}

var exportHeaders = []string{
	"Nom", "Prénom", "Email", "Téléphone", "Date de naissance", "Nationalité",
	"Diplômes", "Emploi actuel", "Domaines", "Statut", "Date de création",
	"Emails envoyés", "CV",
}

func (r exportRow) cells() []any {
	return []any{
		r.LastName, r.FirstName, r.Email, r.Phone, r.BirthDate, r.Nationality,
		r.Degrees, r.CurrentJob, r.Domains, r.Status, r.CreatedAt,
		r.EmailsSent, r.CVFileName,
	}
}

func toExportRows(items []candidacy.Candidacy) []*exportRow {
	rows := make([]*exportRow, 0, len(items))
	for i := range items {
		c := &items[i]
		rows = append(rows, &exportRow{
			LastName:    c.LastName,
			FirstName:   c.FirstName,
			Email:       c.Email.String(),
			Phone:       c.Phone,
			BirthDate:   c.BirthDate,
			Nationality: c.Nationality,
			Degrees:     c.Degrees,
			CurrentJob:  c.CurrentJobOr(""),
			Domains:     strings.Join(c.Domains, ", "),
			Status:      string(c.Status),
			CreatedAt:   c.CreatedAt.Format("02/01/2006 15:04"),
			EmailsSent:  c.EmailsSent,
			CVFileName:  c.OriginalName,
		})
	}
	return rows
}

// Export renders every candidacy matching filter, newest first
func (s *Service) Export(ctx context.Context, filter candidacy.ListFilter, format ExportFormat) (*Export, error) {
	items, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := toExportRows(items)

	var data []byte
	switch format {
	case FormatCSV:
		safe := csvRows(rows)
		data, err = gocsv.MarshalBytes(&safe)
	default:
		format = FormatXLSX
		data, err = renderWorkbook(rows)
	}
	if err != nil {
		return nil, candidacy.ErrExportFailed().WithCause(err)
	}

	return &Export{
		FileName:    fmt.Sprintf("candidatures_%s.%s", s.now().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// csvRows neutralizes cells a spreadsheet would evaluate as formulas. The
// workbook path writes typed string cells and needs no escaping.
func csvRows(rows []*exportRow) []*exportRow {
	out := make([]*exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &exportRow{
			LastName:    csvSafe(r.LastName),
			FirstName:   csvSafe(r.FirstName),
			Email:       csvSafe(r.Email),
			Phone:       csvSafe(r.Phone),
			BirthDate:   csvSafe(r.BirthDate),
			Nationality: csvSafe(r.Nationality),
			Degrees:     csvSafe(r.Degrees),
			CurrentJob:  csvSafe(r.CurrentJob),
			Domains:     csvSafe(r.Domains),
			Status:      csvSafe(r.Status),
			CreatedAt:   r.CreatedAt,
			EmailsSent:  r.EmailsSent,
			CVFileName:  csvSafe(r.CVFileName),
		})
	}
	return out
}

func csvSafe(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

const exportSheet = "Candidatures"

func renderWorkbook(rows []*exportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := r.cells()
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetColWidth(exportSheet, "A", lastCol, 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
