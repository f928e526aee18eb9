package pipeline

import (
	"strings"

	"github.com/ecosdelseo/prospector/internal/model"
)

// Service tags offered by the agency.
const (
	ServiceWebDevelopment = "Web Development"
	ServiceWebRenewal     = "Web Development (Renewal)"
	ServiceEcommerce      = "E-commerce"
	ServiceSEO            = "SEO"
	ServicePaidSearch     = "Paid Search Advertising"
	ServiceSocialMedia    = "Social Media Management"
	ServiceBranding       = "Branding"
	ServiceChatbot        = "Messaging Chatbot"
	ServiceVirtualAssist  = "Virtual Assistant"
	ServiceConsulting     = "Digital Consulting"
)

// retailMarkers flag storefront categories for the e-commerce suggestion.
// Spanish terms first; listings mix languages.
var retailMarkers = []string{"tienda", "comercio", "boutique", "shop", "store"}

// Classify computes a lead's priority and suggested services. It is total
// and deterministic: identical inputs always yield identical output and the
// service list is never empty.
func Classify(b model.EnrichedBusiness) (model.Priority, []string) {
	return classifyPriority(b), suggestServices(b)
}

// classifyPriority evaluates the priority rules in fixed precedence order;
// the first match wins.
func classifyPriority(b model.EnrichedBusiness) model.Priority {
	switch {
	case !b.HasWebsite() && b.HasSocialPresence() && b.ReviewCount > 50:
		return model.PriorityPremium
	case (b.WebsiteBroken() || !b.HasWebsite()) && b.ReviewCount > 20:
		return model.PriorityAlto
	case b.HasWebsite() && b.ReviewCount >= 10 && b.ReviewCount < 50:
		return model.PriorityMedio
	case b.HasWebsite() && b.WebsiteStatus == model.WebsiteActive && b.ReviewCount > 50:
		return model.PriorityBajo
	case b.ReviewCount > 15:
		return model.PriorityMedio
	default:
		return model.PriorityBajo
	}
}

// suggestServices accumulates independent, non-exclusive tags.
func suggestServices(b model.EnrichedBusiness) []string {
	var services []string

	if !b.HasWebsite() {
		services = append(services, ServiceWebDevelopment)
	}
	if b.WebsiteBroken() {
		services = append(services, ServiceWebRenewal)
	}
	if isRetail(b.Category) && !b.HasWebsite() {
		services = append(services, ServiceEcommerce)
	}
	if (b.HasWebsite() && b.ReviewCount < 20) || (!b.HasWebsite() && b.ReviewCount > 10) {
		services = append(services, ServiceSEO)
	}
	if b.ReviewCount > 30 {
		services = append(services, ServicePaidSearch)
	}
	if !b.HasSocialPresence() {
		services = append(services, ServiceSocialMedia)
	}
	if !b.HasWebsite() && !b.HasSocialPresence() {
		services = append(services, ServiceBranding)
	}
	if b.ReviewCount > 40 {
		services = append(services, ServiceChatbot)
	}
	if b.ReviewCount > 50 {
		services = append(services, ServiceVirtualAssist)
	}

	if len(services) == 0 {
		services = append(services, ServiceConsulting)
	}
	return services
}

func isRetail(category string) bool {
	c := strings.ToLower(category)
	for _, marker := range retailMarkers {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}
