package main

import (
	"context"
	"deathcert-service/internal/app/config"
	"deathcert-service/internal/app/delivery/http/controllers"
	"deathcert-service/internal/app/delivery/http/middlewares"
	"deathcert-service/internal/app/delivery/http/routers"
	"deathcert-service/internal/app/drivers/database"
	"deathcert-service/internal/app/drivers/httpclient"
	"deathcert-service/internal/app/drivers/logger"
	"deathcert-service/internal/app/drivers/messaging"
	"deathcert-service/internal/app/services/core/clinical"
	"deathcert-service/internal/app/services/core/patients"
	"deathcert-service/internal/app/services/core/sessions"
	"deathcert-service/internal/app/services/core/smart"
	"deathcert-service/internal/app/services/fhir_spark/session"
	"deathcert-service/internal/app/services/shared/redis"
	"deathcert-service/internal/app/services/shared/reporter"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version sets the default build version
var Version = "develop"

// Tag sets the default latest commit tag
var Tag = "0.0.1-rc"

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if err := internalConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	zapLogger.Info("Starting service",
		zap.String("build_version", Version),
		zap.String("build_tag", Tag),
	)

	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQ,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	err := bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatalf("Error bootstraping the app: %v", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", internalConfig.App.Port),
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Info("Server listening", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error releasing resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	// Fetch reporting
	fetchReporter := reporter.NewLogReporter(bootstrap.Logger)
	if bootstrap.RabbitMQ != nil {
		queueReporter, stop, err := reporter.NewQueueReporter(bootstrap.Logger, bootstrap.RabbitMQ, bootstrap.InternalConfig.Reporter.QueueName)
		if err != nil {
			return err
		}
		fetchReporter = reporter.NewMultiReporter(fetchReporter, queueReporter)
		bootstrap.ReporterStop = stop
	}

	// FHIR
	httpClient := httpclient.NewRetryableClient(bootstrap.InternalConfig, bootstrap.Logger)
	sessionFactory := session.NewSessionFactory(httpClient, bootstrap.Logger, bootstrap.InternalConfig.FHIR)

	// Usecases
	clinicalUsecase := clinical.NewClinicalUsecase(fetchReporter, bootstrap.Logger)
	patientUsecase := patients.NewPatientUsecase(bootstrap.Logger)
	sessionProvider := sessions.NewSessionProvider(sessionFactory, clinicalUsecase, bootstrap.Logger)
	smartUsecase := smart.NewSmartUsecase(redisRepository, httpClient, bootstrap.InternalConfig, bootstrap.Logger)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Controllers
	patientController := controllers.NewPatientController(bootstrap.Logger, sessionProvider, patientUsecase, clinicalUsecase, bootstrap.InternalConfig)
	smartController := controllers.NewSmartController(bootstrap.Logger, smartUsecase, sessionProvider, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, patientController, smartController)
	return nil
}
