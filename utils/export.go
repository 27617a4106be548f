package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"influencia-backend/models"

	"github.com/xuri/excelize/v2"
)

// Formats d'export du tableau de bord
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

// Table est un tableau prêt à être exporté (en-têtes + lignes)
type Table struct {
	Headers []string
	Rows    [][]string
}

// RegistrationTable construit le tableau d'export des participants
func RegistrationTable(regs []models.Registration) Table {
	table := Table{
		Headers: []string{
			"ID", "Full Name", "Email", "Contact Number", "Business Name", "Designation",
			"Sectors", "Experience", "Ticket Type", "Payment Status", "Attended",
			"Check-in Time", "QR Code", "Registered At",
		},
	}
	for _, r := range regs {
		table.Rows = append(table.Rows, []string{
			r.ID.Hex(),
			r.FullName,
			r.Email,
			r.ContactNumber,
			r.BusinessName,
			r.Designation,
			strings.Join(r.Sectors, "; "),
			r.Experience,
			r.TicketType,
			r.PaymentStatus,
			yesNo(r.Attended),
			formatOptionalTime(r.CheckInTime),
			r.QRCode,
			formatTime(r.CreatedAt),
		})
	}
	return table
}

// VolunteerTable construit le tableau d'export des bénévoles
func VolunteerTable(vols []models.Volunteer) Table {
	table := Table{
		Headers: []string{
			"ID", "Full Name", "Email", "Phone", "Gender", "Age", "City", "Occupation",
			"Organization", "Preferred Areas", "Availability", "Availability Time",
			"Consent To Contact", "Status", "Applied At",
		},
	}
	for _, v := range vols {
		age := ""
		if v.Age > 0 {
			age = strconv.Itoa(v.Age)
		}
		table.Rows = append(table.Rows, []string{
			v.ID.Hex(),
			v.FullName,
			v.Email,
			v.Phone,
			v.Gender,
			age,
			v.City,
			v.Occupation,
			v.Organization,
			strings.Join(v.PreferredAreas, "; "),
			v.Availability,
			v.AvailabilityTime,
			yesNo(v.ConsentToContact),
			v.Status,
			formatTime(v.CreatedAt),
		})
	}
	return table
}

// WriteCSV écrit le tableau au format CSV
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("erreur écriture en-têtes CSV: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("erreur écriture lignes CSV: %w", err)
	}
	return nil
}

// WriteXLSX écrit le tableau dans un classeur Excel d'une feuille
func WriteXLSX(w io.Writer, sheet string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("erreur renommage feuille: %w", err)
	}

	if err := setRow(f, sheet, 1, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("erreur écriture classeur: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("erreur écriture ligne %d: %w", rowNum, err)
	}
	return nil
}

// ExportFilename construit le nom du fichier téléchargé
func ExportFilename(prefix, format string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02"), format)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
