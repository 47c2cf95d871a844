package routers

import (
	"deathcert-service/internal/app/config"
	"deathcert-service/internal/app/delivery/http/controllers"
	"deathcert-service/internal/app/delivery/http/middlewares"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	patientController *controllers.PatientController,
	smartController *controllers.SmartController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   internalConfig.App.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	window := time.Duration(internalConfig.App.MaxTimeRequestsPerSeconds) * time.Second
	if window <= 0 {
		window = time.Second
	}
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, window))

	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)

	router.Get("/healthz", smartController.HealthCheck)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/patients", func(r chi.Router) {
				attachPatientRoutes(r, patientController)
			})

			r.Route("/smart", func(r chi.Router) {
				attachSmartRoutes(r, smartController)
			})
		})
	})
}
