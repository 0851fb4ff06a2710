package controllers_fx

import (
	"go.uber.org/fx"

	"cabbie/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewPlacesController),
	fx.Provide(controllers.NewWizardController),
	fx.Provide(controllers.NewCheckoutController),
	fx.Provide(controllers.NewBookingController),
	fx.Provide(controllers.NewSiteController))
