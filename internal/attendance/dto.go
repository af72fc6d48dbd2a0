package attendance

import (
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal"
)

// ClockInDTO is the request payload for clocking in. Coordinates are
// optional; when the browser denies geolocation the record keeps NULL
// coordinates rather than a fake (0,0).
type ClockInDTO struct {
	Latitude  *decimal.Decimal `json:"latitude,omitempty"`
	Longitude *decimal.Decimal `json:"longitude,omitempty"`
	Location  *string          `json:"location,omitempty"`
}

func (dto ClockInDTO) Validate() error {
	if (dto.Latitude == nil) != (dto.Longitude == nil) {
		return internal.NewValidationError("latitude and longitude must be provided together", internal.ErrCodeValidationFailed)
	}
	if dto.Latitude != nil {
		if dto.Latitude.LessThan(decimal.NewFromInt(-90)) || dto.Latitude.GreaterThan(decimal.NewFromInt(90)) {
			return internal.NewValidationError("latitude must be between -90 and 90", internal.ErrCodeValidationFailed)
		}
		if dto.Longitude.LessThan(decimal.NewFromInt(-180)) || dto.Longitude.GreaterThan(decimal.NewFromInt(180)) {
			return internal.NewValidationError("longitude must be between -180 and 180", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

// HistoryFilter narrows ListHistory to an inclusive date window.
type HistoryFilter struct {
	StartDate string
	EndDate   string
}

// TodayResponse pairs today's record with its elapsed working duration so
// the dashboard does not recompute it client-side.
type TodayResponse struct {
	Record   *Record  `json:"record"`
	Duration Duration `json:"duration"`
}
