package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ecosdelseo/prospector/internal/model"
)

func TestMerge_NilDetailKeepsCandidate(t *testing.T) {
	now := time.Now()
	c := model.BusinessCandidate{
		Name:        "Polleria El Fogon",
		Category:    "restaurantes",
		Rating:      4.2,
		ReviewCount: 33,
		Address:     "Av. Brasil 1200",
		SourceURL:   "https://maps.example.com/el-fogon",
	}

	b := Merge(c, nil, "Lima", now)

	assert.Equal(t, c.Name, b.Name)
	assert.Equal(t, c.Address, b.Address)
	assert.Equal(t, "Lima", b.City)
	assert.Equal(t, model.ContactStatusPending, b.ContactStatus)
	assert.Equal(t, now, b.CapturedAt)
	assert.Empty(t, b.Phone)
	assert.Empty(t, b.Website)
}

func TestMerge_DetailOverridesWhenPresent(t *testing.T) {
	c := model.BusinessCandidate{
		Name:    "Polleria El Fogon",
		Address: "Av. Brasil 1200",
	}
	d := &model.BusinessDetail{
		Address: "Av. Brasil 1234, Pueblo Libre",
		Phone:   "+51 912 000 111",
		Website: "https://elfogon.pe",
		Email:   "contacto@elfogon.pe",
	}

	b := Merge(c, d, "Lima", time.Now())

	assert.Equal(t, "Av. Brasil 1234, Pueblo Libre", b.Address)
	assert.Equal(t, "+51 912 000 111", b.Phone)
	assert.Equal(t, "contacto@elfogon.pe", b.Email)
}

func TestMerge_EmptyDetailAddressKeepsCandidateAddress(t *testing.T) {
	c := model.BusinessCandidate{Name: "Botica Central", Address: "Jr. Ancash 50"}
	d := &model.BusinessDetail{Phone: "+51 912 222 333"}

	b := Merge(c, d, "Cusco", time.Now())
	assert.Equal(t, "Jr. Ancash 50", b.Address)
}

func TestMerge_WhatsAppFallsBackToPhone(t *testing.T) {
	c := model.BusinessCandidate{Name: "Botica Central"}

	b := Merge(c, &model.BusinessDetail{Phone: "+51 912 222 333"}, "Cusco", time.Now())
	assert.Equal(t, "+51 912 222 333", b.WhatsApp)

	b = Merge(c, &model.BusinessDetail{Phone: "+51 912 222 333", WhatsApp: "+51 999 888 777"}, "Cusco", time.Now())
	assert.Equal(t, "+51 999 888 777", b.WhatsApp)
}

func TestMerge_WebsiteWithoutStatusDefaultsActive(t *testing.T) {
	c := model.BusinessCandidate{Name: "Botica Central"}

	b := Merge(c, &model.BusinessDetail{Website: "https://boticacentral.pe"}, "Cusco", time.Now())
	assert.Equal(t, model.WebsiteActive, b.WebsiteStatus)

	b = Merge(c, &model.BusinessDetail{
		Website:       "https://boticacentral.pe",
		WebsiteStatus: model.WebsiteInactive,
	}, "Cusco", time.Now())
	assert.Equal(t, model.WebsiteInactive, b.WebsiteStatus)

	b = Merge(c, &model.BusinessDetail{}, "Cusco", time.Now())
	assert.Empty(t, b.WebsiteStatus)
}
