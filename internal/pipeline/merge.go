package pipeline

import (
	"time"

	"github.com/ecosdelseo/prospector/internal/model"
)

// Merge combines a listing candidate with its detail fetch. Detail fields
// overwrite candidate fields only when present; a nil detail keeps the bare
// candidate, since partial data beats no data. Priority and services are not
// set here; Classify runs after the filter, gate, and deduplicator.
func Merge(c model.BusinessCandidate, d *model.BusinessDetail, city string, capturedAt time.Time) model.EnrichedBusiness {
	b := model.EnrichedBusiness{
		Name:          c.Name,
		Category:      c.Category,
		Rating:        c.Rating,
		ReviewCount:   c.ReviewCount,
		Address:       c.Address,
		SourceURL:     c.SourceURL,
		Coordinates:   c.Coordinates,
		City:          city,
		ContactStatus: model.ContactStatusPending,
		CapturedAt:    capturedAt,
	}
	if d == nil {
		return b
	}

	if d.Address != "" {
		b.Address = d.Address
	}
	b.Phone = d.Phone
	b.SecondPhone = d.SecondPhone
	b.WhatsApp = d.WhatsApp
	if b.WhatsApp == "" {
		b.WhatsApp = d.Phone
	}
	b.Website = d.Website
	b.WebsiteStatus = d.WebsiteStatus
	if b.Website != "" && b.WebsiteStatus == "" {
		b.WebsiteStatus = model.WebsiteActive
	}
	b.Facebook = d.Facebook
	b.Instagram = d.Instagram
	b.TikTok = d.TikTok
	b.LinkedIn = d.LinkedIn
	b.Hours = d.Hours
	b.OpenState = d.OpenState
	b.ContactName = d.ContactName
	b.ContactRole = d.ContactRole
	b.Email = d.Email
	b.SecondEmail = d.SecondEmail

	return b
}
