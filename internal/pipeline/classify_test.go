package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosdelseo/prospector/internal/model"
)

func TestClassify_PremiumNoWebsiteWithSocial(t *testing.T) {
	b := model.EnrichedBusiness{
		Name:        "Cevicheria El Puerto",
		Facebook:    "https://facebook.com/elpuerto",
		ReviewCount: 60,
	}

	priority, services := Classify(b)
	assert.Equal(t, model.PriorityPremium, priority)
	assert.NotEmpty(t, services)
}

func TestClassify_AltoInactiveWebsite(t *testing.T) {
	b := model.EnrichedBusiness{
		Name:          "Panaderia San Jose",
		Website:       "https://panaderiasanjose.pe",
		WebsiteStatus: model.WebsiteInactive,
		ReviewCount:   25,
	}

	priority, services := Classify(b)
	assert.Equal(t, model.PriorityAlto, priority)
	assert.Contains(t, services, ServiceWebRenewal)
}

func TestClassify_BajoActiveWebsite(t *testing.T) {
	b := model.EnrichedBusiness{
		Name:          "Clinica Dental Sonrisa",
		Website:       "https://sonrisa.pe",
		WebsiteStatus: model.WebsiteActive,
		ReviewCount:   80,
	}

	priority, _ := Classify(b)
	assert.Equal(t, model.PriorityBajo, priority)
}

func TestClassify_PriorityTable(t *testing.T) {
	tests := []struct {
		name     string
		business model.EnrichedBusiness
		want     model.Priority
	}{
		{
			name: "no website no social many reviews is alto",
			business: model.EnrichedBusiness{
				ReviewCount: 60,
			},
			want: model.PriorityAlto,
		},
		{
			name: "unresponsive website with reviews is alto",
			business: model.EnrichedBusiness{
				Website:       "https://example.pe",
				WebsiteStatus: model.WebsiteUnresponsive,
				ReviewCount:   21,
			},
			want: model.PriorityAlto,
		},
		{
			name: "website with moderate reviews is medio",
			business: model.EnrichedBusiness{
				Website:       "https://example.pe",
				WebsiteStatus: model.WebsiteActive,
				ReviewCount:   30,
			},
			want: model.PriorityMedio,
		},
		{
			name: "medio band takes precedence over bajo at 49 reviews",
			business: model.EnrichedBusiness{
				Website:       "https://example.pe",
				WebsiteStatus: model.WebsiteActive,
				ReviewCount:   49,
			},
			want: model.PriorityMedio,
		},
		{
			name: "fallback medio above 15 reviews",
			business: model.EnrichedBusiness{
				ReviewCount: 16,
			},
			want: model.PriorityMedio,
		},
		{
			name:     "fallback bajo with nothing",
			business: model.EnrichedBusiness{},
			want:     model.PriorityBajo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, services := Classify(tt.business)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, services, "service list must never be empty")
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	b := model.EnrichedBusiness{
		Name:        "Taller Mecanico Lopez",
		Category:    "taller",
		Instagram:   "https://instagram.com/tallerlopez",
		ReviewCount: 35,
	}

	p1, s1 := Classify(b)
	for range 10 {
		p2, s2 := Classify(b)
		require.Equal(t, p1, p2)
		require.Equal(t, s1, s2)
	}
}

func TestSuggestServices_Tags(t *testing.T) {
	tests := []struct {
		name     string
		business model.EnrichedBusiness
		want     []string
	}{
		{
			name: "retail without website gets ecommerce and web development",
			business: model.EnrichedBusiness{
				Category:    "tienda de ropa",
				ReviewCount: 5,
			},
			want: []string{ServiceWebDevelopment, ServiceEcommerce, ServiceSocialMedia, ServiceBranding},
		},
		{
			name: "website with few reviews gets seo",
			business: model.EnrichedBusiness{
				Website:       "https://example.pe",
				WebsiteStatus: model.WebsiteActive,
				Facebook:      "https://facebook.com/example",
				ReviewCount:   5,
			},
			want: []string{ServiceSEO},
		},
		{
			name: "heavy review volume stacks paid search, chatbot, assistant",
			business: model.EnrichedBusiness{
				Website:       "https://example.pe",
				WebsiteStatus: model.WebsiteActive,
				Instagram:     "https://instagram.com/example",
				ReviewCount:   55,
			},
			want: []string{ServicePaidSearch, ServiceChatbot, ServiceVirtualAssist},
		},
		{
			name: "fully covered business falls back to consulting",
			business: model.EnrichedBusiness{
				Website:       "https://example.pe",
				WebsiteStatus: model.WebsiteActive,
				Facebook:      "https://facebook.com/example",
				ReviewCount:   25,
			},
			want: []string{ServiceConsulting},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, services := Classify(tt.business)
			assert.Equal(t, tt.want, services)
		})
	}
}
