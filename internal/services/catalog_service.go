package services

import (
	"context"

	"go.uber.org/zap"

	"cabbie/internal/models/request_models"
	"cabbie/internal/models/response_models"
)

type CatalogServiceInterface interface {
	ServiceTypes() []response_models.ServiceTypeResponse
}

type catalogService struct {
	fares FareCalculatorInterface
}

func NewCatalogService(fares FareCalculatorInterface) CatalogServiceInterface {
	return &catalogService{fares: fares}
}

// ServiceTypes lists vehicle classes with their lowest per-mile rate.
func (c *catalogService) ServiceTypes() []response_models.ServiceTypeResponse {
	tariff := c.fares.Tariff()
	names := tariff.ServiceNames()

	out := make([]response_models.ServiceTypeResponse, 0, len(names))
	for _, code := range names {
		svc := tariff.Services[code]
		var from int64
		for _, t := range svc.Tiers {
			if from == 0 || t.PerMile < from {
				from = t.PerMile
			}
		}
		out = append(out, response_models.ServiceTypeResponse{
			Code:          code,
			Name:          svc.DisplayName,
			MaxPassengers: svc.MaxPassengers,
			MaxLuggage:    svc.MaxLuggage,
			MinimumFare:   svc.MinimumFare,
			FromPerMile:   from,
			Currency:      tariff.Currency,
		})
	}
	return out
}

type ContactServiceInterface interface {
	Submit(ctx context.Context, req request_models.ContactRequest) error
}

type contactService struct {
	mailer IMailService
	log    *zap.Logger
}

func NewContactService(mailer IMailService, log *zap.Logger) ContactServiceInterface {
	return &contactService{mailer: mailer, log: log}
}

func (c *contactService) Submit(ctx context.Context, req request_models.ContactRequest) error {
	if err := c.mailer.SendContactEnquiry(ctx, req); err != nil {
		return err
	}
	c.log.Info("contact enquiry forwarded", zap.String("from", req.Email))
	return nil
}
