package routers

import (
	"deathcert-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachSmartRoutes(router chi.Router, smartController *controllers.SmartController) {
	router.Get("/launch", smartController.Launch)
	router.Get("/callback", smartController.Callback)
	router.Get("/context", smartController.Context)
}
