// Package export renders enriched business records into the prospecting
// workbook handed to the sales team.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/ecosdelseo/prospector/internal/model"
)

// businessHeaders is the full column set of the "Businesses" sheet. Order
// matters: it matches the sales team's tracking template.
var businessHeaders = []string{
	"Business Name", "Category", "Address", "Contact Name", "Contact Role",
	"Primary Phone", "Second Phone", "WhatsApp", "Email 1", "Email 2",
	"Has Website", "Website URL", "Website Status", "Facebook", "Instagram",
	"TikTok", "LinkedIn", "Rating", "Reviews", "Hours",
	"Open State", "Priority Level", "Suggested Services", "Contact Status",
	"First Contact Date", "Last Follow-Up", "Notes", "Captured At",
	"City", "Coordinates",
}

// WriteWorkbook writes the three-sheet prospecting workbook and returns the
// generated filename.
func WriteWorkbook(businesses []model.EnrichedBusiness, city, dir string) (string, error) {
	if len(businesses) == 0 {
		return "", eris.Wrap(model.ErrValidation, "export: no businesses to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create dir %s", dir)
	}

	f := xlsx.NewFile()
	if err := addBusinessSheet(f, businesses); err != nil {
		return "", err
	}
	if err := addSummarySheet(f, businesses, city); err != nil {
		return "", err
	}
	if err := addGuideSheet(f); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("Prospecting_%s_%s.xlsx",
		sanitizeFilename(city),
		time.Now().UTC().Format("2006-01-02_15-04-05"),
	)
	if err := f.Save(filepath.Join(dir, filename)); err != nil {
		return "", eris.Wrap(err, "export: save workbook")
	}
	return filename, nil
}

func addBusinessSheet(f *xlsx.File, businesses []model.EnrichedBusiness) error {
	sheet, err := f.AddSheet("Businesses")
	if err != nil {
		return eris.Wrap(err, "export: add businesses sheet")
	}

	header := sheet.AddRow()
	for _, h := range businessHeaders {
		header.AddCell().Value = h
	}

	for _, b := range businesses {
		hasWebsite := "No"
		if b.HasWebsite() {
			hasWebsite = "Yes"
		}
		row := sheet.AddRow()
		for _, v := range []string{
			b.Name, b.Category, b.Address, b.ContactName, b.ContactRole,
			b.Phone, b.SecondPhone, b.WhatsApp, b.Email, b.SecondEmail,
			hasWebsite, b.Website, string(b.WebsiteStatus), b.Facebook, b.Instagram,
			b.TikTok, b.LinkedIn,
			fmt.Sprintf("%.1f", b.Rating), fmt.Sprintf("%d", b.ReviewCount), b.Hours,
			b.OpenState, string(b.Priority), strings.Join(b.SuggestedServices, ", "), b.ContactStatus,
			"", "", "", b.CapturedAt.Format(time.RFC3339),
			b.City, b.Coordinates,
		} {
			row.AddCell().Value = v
		}
	}
	return nil
}

func addSummarySheet(f *xlsx.File, businesses []model.EnrichedBusiness, city string) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	stats := Summarize(businesses, city)
	rows := [][2]string{
		{"City", stats.City},
		{"Total Businesses", fmt.Sprintf("%d", stats.Total)},
		{"Without Website", fmt.Sprintf("%d", stats.WithoutWebsite)},
		{"Premium Leads", fmt.Sprintf("%d", stats.Premium)},
		{"Alto Leads", fmt.Sprintf("%d", stats.Alto)},
		{"Medio Leads", fmt.Sprintf("%d", stats.Medio)},
		{"Bajo Leads", fmt.Sprintf("%d", stats.Bajo)},
		{"Average Rating", fmt.Sprintf("%.2f", stats.AverageRating)},
		{"Top Categories", strings.Join(stats.TopCategories, ", ")},
		{"Generated", time.Now().UTC().Format("2006-01-02")},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r[0]
		row.AddCell().Value = r[1]
	}
	return nil
}

var guideLines = []string{
	"PRIORITY LEVELS",
	"Premium: no website + active social presence + more than 50 reviews (top opportunity)",
	"Alto: broken or missing website with solid review volume",
	"Medio: basic website or moderate review volume",
	"Bajo: established website already in good shape",
	"",
	"CONTACT STATUSES",
	"Pending: not contacted yet",
	"Called: first contact made",
	"Interested: showed interest in services",
	"Not interested: declined the proposal",
	"Hired: client acquired",
	"No answer: does not respond to calls or messages",
	"",
	"SERVICE CATALOG",
	"Web Development, E-commerce, SEO, Paid Search Advertising,",
	"Branding, Social Media Management, Messaging Chatbot, Virtual Assistant,",
	"Digital Consulting",
}

func addGuideSheet(f *xlsx.File) error {
	sheet, err := f.AddSheet("Usage Guide")
	if err != nil {
		return eris.Wrap(err, "export: add guide sheet")
	}
	for _, line := range guideLines {
		sheet.AddRow().AddCell().Value = line
	}
	return nil
}

func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
