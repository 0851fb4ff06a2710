package booking_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabbie/internal/config"
	"cabbie/internal/repositories"
	"cabbie/internal/services"
)

var Module = fx.Provide(
	provideBookingRepo,
	provideDocumentService,
	provideBookingService,
	provideContactService,
)

func provideBookingRepo(db *gorm.DB) repositories.BookingRepository {
	return repositories.NewBookingRepository(db)
}

func provideDocumentService(cfg *config.Config) services.DocumentServiceInterface {
	return services.NewDocumentService(cfg.App.Name)
}

func provideBookingService(
	bookings repositories.BookingRepository,
	gateway services.PaymentGateway,
	mailer services.IMailService,
	docs services.DocumentServiceInterface,
	cfg *config.Config,
	log *zap.Logger,
) services.BookingServiceInterface {
	return services.NewBookingService(bookings, gateway, mailer, docs, cfg.Booking.CancellationWindow, log.Named("booking"))
}

func provideContactService(mailer services.IMailService, log *zap.Logger) services.ContactServiceInterface {
	return services.NewContactService(mailer, log.Named("contact"))
}
