package response_models

import "cabbie/internal/models/request_models"

type DraftResponse struct {
	ID        string                        `json:"id"`
	Step      string                        `json:"step"`
	Ride      *request_models.RideDetails   `json:"ride,omitempty"`
	Passenger *request_models.PassengerInfo `json:"passenger,omitempty"`
	Quote     *QuoteResponse                `json:"quote,omitempty"`
	ExpiresAt string                        `json:"expires_at"`
}
