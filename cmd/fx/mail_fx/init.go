package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cabbie/internal/config"
	"cabbie/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) services.IMailService {
	return services.NewMailService(services.MailConfig{
		SMTP:          cfg.SMTP,
		AppName:       cfg.App.Name,
		AppBaseURL:    cfg.App.BaseURL,
		OperatorEmail: cfg.App.OperatorEmail,
		ResetTTL:      cfg.Auth.ResetTokenTTL,
	}, log.Named("mail"))
}
