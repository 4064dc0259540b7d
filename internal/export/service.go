package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/vcard"
)

// SheetName is the sheet holding one row per contact.
const SheetName = "Contacts"

var headers = []string{
	"Name",
	"Reading",
	"Company",
	"Title",
	"Email",
	"Phone",
	"Postal Code",
	"Address",
	"Links",
	"Photo",
}

// Service produces XLSX workbooks from contacts files for review.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportFile reads a contacts.vcf and writes the workbook to dst.
func (s *Service) ExportFile(src, dst string) (int, error) {
	contacts, err := vcard.ReadFile(src)
	if err != nil {
		return 0, common.IOError("read contacts", err)
	}
	b, err := s.ExportContactsXLSX(contacts)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return 0, common.IOError("write workbook", err)
	}
	s.logger.Info("export.file.ok", "src", src, "dst", dst, "rows", len(contacts))
	return len(contacts), nil
}

// ExportContactsXLSX returns an XLSX workbook (as bytes) with a header row
// followed by one row per contact, in file order.
func (s *Service) ExportContactsXLSX(contacts []vcard.Contact) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// rename the default sheet rather than leaving an empty Sheet1 behind
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, c := range contacts {
		photo := ""
		if c.HasPhoto {
			photo = "yes"
		}
		values := []any{
			c.Name,
			c.Reading,
			c.Company,
			c.Title,
			c.Email,
			c.Phone,
			c.PostalCode,
			truncate(c.Address, 140),
			strings.Join(c.SocialLinks, "\n"),
			photo,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "B", 20) // names
	_ = f.SetColWidth(SheetName, "C", "D", 28) // company, title
	_ = f.SetColWidth(SheetName, "E", "F", 26) // email, phone
	_ = f.SetColWidth(SheetName, "G", "G", 12)
	_ = f.SetColWidth(SheetName, "H", "H", 48)
	_ = f.SetColWidth(SheetName, "I", "I", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(contacts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
