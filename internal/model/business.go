package model

import "time"

// Priority ranks a lead by sales opportunity. Labels follow the agency's
// Spanish-language prospecting sheets.
type Priority string

const (
	PriorityPremium Priority = "Premium"
	PriorityAlto    Priority = "Alto"
	PriorityMedio   Priority = "Medio"
	PriorityBajo    Priority = "Bajo"
)

// WebsiteStatus describes the observed state of a business website.
type WebsiteStatus string

const (
	WebsiteActive       WebsiteStatus = "Active"
	WebsiteInactive     WebsiteStatus = "Inactive"
	WebsiteUnresponsive WebsiteStatus = "Unresponsive"
)

// BusinessCandidate holds the raw fields returned by a listing query.
// Identity is not yet established at this stage.
type BusinessCandidate struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Address     string  `json:"address"`
	SourceURL   string  `json:"source_url"`
	Coordinates string  `json:"coordinates,omitempty"`
}

// BusinessDetail holds the raw fields from a detail fetch. Any field may be
// absent; empty strings mean the extractor found nothing.
type BusinessDetail struct {
	Address       string        `json:"address,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	SecondPhone   string        `json:"second_phone,omitempty"`
	WhatsApp      string        `json:"whatsapp,omitempty"`
	Website       string        `json:"website,omitempty"`
	WebsiteStatus WebsiteStatus `json:"website_status,omitempty"`
	Facebook      string        `json:"facebook,omitempty"`
	Instagram     string        `json:"instagram,omitempty"`
	TikTok        string        `json:"tiktok,omitempty"`
	LinkedIn      string        `json:"linkedin,omitempty"`
	Hours         string        `json:"hours,omitempty"`
	OpenState     string        `json:"open_state,omitempty"`
	ContactName   string        `json:"contact_name,omitempty"`
	ContactRole   string        `json:"contact_role,omitempty"`
	Email         string        `json:"email,omitempty"`
	SecondEmail   string        `json:"second_email,omitempty"`
}

// ContactStatusPending is the initial contact status for every new lead.
const ContactStatusPending = "Pending"

// EnrichedBusiness is a candidate merged with detail data and scored as a
// lead. Priority and SuggestedServices are derived purely from the other
// fields; recomputing them from an identical record yields identical output.
type EnrichedBusiness struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Address     string  `json:"address"`
	SourceURL   string  `json:"source_url"`
	Coordinates string  `json:"coordinates,omitempty"`

	Phone         string        `json:"phone,omitempty"`
	SecondPhone   string        `json:"second_phone,omitempty"`
	WhatsApp      string        `json:"whatsapp,omitempty"`
	Website       string        `json:"website,omitempty"`
	WebsiteStatus WebsiteStatus `json:"website_status,omitempty"`
	Facebook      string        `json:"facebook,omitempty"`
	Instagram     string        `json:"instagram,omitempty"`
	TikTok        string        `json:"tiktok,omitempty"`
	LinkedIn      string        `json:"linkedin,omitempty"`
	Hours         string        `json:"hours,omitempty"`
	OpenState     string        `json:"open_state,omitempty"`
	ContactName   string        `json:"contact_name,omitempty"`
	ContactRole   string        `json:"contact_role,omitempty"`
	Email         string        `json:"email,omitempty"`
	SecondEmail   string        `json:"second_email,omitempty"`

	City              string    `json:"city"`
	Priority          Priority  `json:"priority"`
	SuggestedServices []string  `json:"suggested_services"`
	ContactStatus     string    `json:"contact_status"`
	CapturedAt        time.Time `json:"captured_at"`
}

// HasWebsite reports whether the business has a known website.
func (b EnrichedBusiness) HasWebsite() bool {
	return b.Website != ""
}

// WebsiteBroken reports whether the website is known but marked inactive or
// unresponsive.
func (b EnrichedBusiness) WebsiteBroken() bool {
	return b.Website != "" &&
		(b.WebsiteStatus == WebsiteInactive || b.WebsiteStatus == WebsiteUnresponsive)
}

// HasSocialPresence reports whether any social link is known.
func (b EnrichedBusiness) HasSocialPresence() bool {
	return b.Facebook != "" || b.Instagram != "" || b.TikTok != "" || b.LinkedIn != ""
}

// IsContactable reports whether at least one usable contact channel exists.
// Lacking one never excludes a lead; it only triggers a soft warning.
func (b EnrichedBusiness) IsContactable() bool {
	return b.Phone != "" || b.SecondPhone != "" || b.WhatsApp != "" ||
		b.Email != "" || b.SecondEmail != ""
}

// Clone returns a deep copy, including the service tag slice.
func (b EnrichedBusiness) Clone() EnrichedBusiness {
	out := b
	if b.SuggestedServices != nil {
		out.SuggestedServices = make([]string, len(b.SuggestedServices))
		copy(out.SuggestedServices, b.SuggestedServices)
	}
	return out
}
