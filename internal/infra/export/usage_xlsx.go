package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/barberconnect/internal/dto"
)

const (
	summarySheet = "Summary"
	barbersSheet = "Barbers"
)

// UsageReportXLSX renders a usage report as a two-sheet workbook.
func UsageReportXLSX(r *dto.UsageReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	summary := [][]any{
		{"Metric", "Value"},
		{"Start date", r.StartDate},
		{"End date", r.EndDate},
		{"Total revenue", r.TotalRevenue},
		{"Total customers", r.TotalCustomers},
		{"No-shows", r.NoShows},
		{"No-show rate (%)", r.NoShowRate},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(barbersSheet); err != nil {
		return nil, err
	}

	clients := make(map[string]int, len(r.BarberClients))
	for _, bc := range r.BarberClients {
		clients[bc.Barber] = bc.Clients
	}

	rows := [][]any{{"Barber", "Revenue", "Clients"}}
	for _, br := range r.BarberRevenue {
		rows = append(rows, []any{br.Barber, br.Revenue, clients[br.Barber]})
	}
	if err := writeRows(f, barbersSheet, rows); err != nil {
		return nil, err
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(summarySheet, "A1", "B1", style)
	_ = f.SetCellStyle(barbersSheet, "A1", "C1", style)
	_ = f.SetColWidth(summarySheet, "A", "A", 20)
	_ = f.SetColWidth(summarySheet, "B", "B", 14)
	_ = f.SetColWidth(barbersSheet, "A", "A", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
