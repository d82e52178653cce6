package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/askarbek/maintdesk/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a printable A4 work order for one maintenance request.
func (g *Generator) Generate(doc model.WorkOrderDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Maintenance Work Order", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Request %s", doc.Request.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Created %s", formatDate(doc.Request.CreatedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.addSection(pdf, "Request")
	rows := [][2]string{
		{"Subject", doc.Request.Subject},
		{"Type", string(doc.Request.RequestType)},
		{"Stage", string(doc.Request.Stage)},
		{"Category", doc.Request.Category},
		{"Scheduled date", formatDatePtr(doc.Request.ScheduledDate)},
		{"Team", doc.TeamName},
	}
	if doc.Request.AssignedTechnicianID != nil {
		rows = append(rows, [2]string{"Technician", doc.Request.AssignedTechnicianID.String()})
	}
	if doc.Request.DurationHours != nil {
		rows = append(rows, [2]string{"Duration, h", fmt.Sprintf("%.2f", *doc.Request.DurationHours)})
	}
	if doc.Request.CompletedAt != nil {
		rows = append(rows, [2]string{"Completed", formatDate(*doc.Request.CompletedAt)})
	}
	g.addRows(pdf, rows)
	pdf.Ln(2)

	g.addSection(pdf, "Equipment")
	g.addRows(pdf, [][2]string{
		{"Name", doc.Equipment.Name},
		{"Serial number", doc.Equipment.SerialNumber},
		{"Department", doc.Equipment.Department},
		{"Location", doc.Equipment.Location},
		{"Warranty until", formatDate(doc.Equipment.WarrantyExpiry)},
	})
	pdf.Ln(2)

	if doc.Request.Description != "" {
		g.addSection(pdf, "Description")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, doc.Request.Description, "", "L", false)
		pdf.Ln(2)
	}
	if doc.Request.Notes != "" {
		g.addSection(pdf, "Notes")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, doc.Request.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) addSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *Generator) addRows(pdf *gofpdf.Fpdf, rows [][2]string) {
	pdf.SetFont(g.fontName, "", 10)
	for _, row := range rows {
		pdf.CellFormat(45, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}
