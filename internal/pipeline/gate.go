package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ecosdelseo/prospector/internal/model"
)

const (
	minNameLen    = 3
	minAddressLen = 6
)

// MeetsMinimum is the data-quality gate: a retained record needs a name
// longer than 2 characters and an address longer than 5. Contact data is
// never required here: a lead without phone or email is kept and only
// flagged for operator awareness.
func MeetsMinimum(b model.EnrichedBusiness) bool {
	if len(strings.TrimSpace(b.Name)) < minNameLen {
		return false
	}
	if len(strings.TrimSpace(b.Address)) < minAddressLen {
		return false
	}

	if !b.IsContactable() {
		zap.L().Warn("gate: lead has no contact channel",
			zap.String("name", b.Name),
			zap.String("city", b.City),
		)
	}

	return true
}
