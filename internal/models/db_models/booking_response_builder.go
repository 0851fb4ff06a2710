package db_models

import (
	"sort"

	resp "cabbie/internal/models/response_models"
	"cabbie/pkg/utils"
)

func BuildBookingResponse(b *Booking) resp.BookingResponse {
	journeys := make([]Journey, len(b.Journeys))
	copy(journeys, b.Journeys)
	sort.SliceStable(journeys, func(i, k int) bool {
		return journeys[i].PickupAt.Before(journeys[k].PickupAt)
	})

	out := resp.BookingResponse{
		ID:             b.ID.String(),
		Reference:      b.Reference,
		Status:         string(b.Status),
		ServiceType:    b.ServiceType,
		PassengerName:  b.PassengerName,
		PassengerEmail: b.PassengerEmail,
		PassengerPhone: b.PassengerPhone,
		Passengers:     b.Passengers,
		Luggage:        b.Luggage,
		Notes:          b.Notes,
		TotalMinor:     b.TotalMinor,
		Currency:       b.Currency,
		Display:        utils.FormatMoney(b.TotalMinor, b.Currency),
		CreatedAt:      utils.FormatRFC3339UK(utils.FromUnixSecondsUK(b.CreatedAt)),
		Journeys:       make([]resp.JourneyResponse, 0, len(journeys)),
	}
	if b.CancelledAt != nil {
		out.CancelledAt = utils.FormatRFC3339UK(utils.FromUnixSecondsUK(*b.CancelledAt))
	}

	for _, j := range journeys {
		out.Journeys = append(out.Journeys, resp.JourneyResponse{
			ID:              j.ID.String(),
			Leg:             string(j.Leg),
			PickupAddress:   j.PickupAddress,
			DropoffAddress:  j.DropoffAddress,
			PickupAt:        utils.FormatRFC3339UK(j.PickupAt),
			DistanceMiles:   j.DistanceMiles,
			DurationMinutes: j.DurationMinutes,
			WaitMinutes:     j.WaitMinutes,
			FareMinor:       j.FareMinor,
			FlightNumber:    j.FlightNumber,
		})
	}
	return out
}
