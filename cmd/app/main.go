package main

import (
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quickgo/cmd"
	"quickgo/internal/adapters/in/http"
	"quickgo/internal/adapters/out/postgres"
	"quickgo/internal/jobs"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	root := cmd.NewCompositionRoot(configs, gormDB)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(
		root.CreateCancelStalePaymentsCommandHandler(),
		root.CreateGetDelayedOrdersQueryHandler(),
		stalePaymentTimeout(configs),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		StalePaymentTimeout: goDotEnvVariable("STALE_PAYMENT_TIMEOUT"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

// stalePaymentTimeout parses STALE_PAYMENT_TIMEOUT, defaulting to 30 minutes.
func stalePaymentTimeout(configs cmd.Config) time.Duration {
	if configs.StalePaymentTimeout == "" {
		return 30 * time.Minute
	}

	timeout, err := time.ParseDuration(configs.StalePaymentTimeout)
	if err != nil || timeout <= 0 {
		log.Fatalf("Invalid STALE_PAYMENT_TIMEOUT: %q", configs.StalePaymentTimeout)
	}
	return timeout
}

func startWebServer(root cmd.CompositionRoot, port string) {
	server := http.NewServer(http.Handlers{
		CreateOrder:         root.CreateCreateOrderCommandHandler(),
		ConfirmOrder:        root.CreateConfirmOrderCommandHandler(),
		StartPreparingOrder: root.CreateStartPreparingOrderCommandHandler(),
		MarkOrderReady:      root.CreateMarkOrderReadyCommandHandler(),
		CancelOrder:         root.CreateCancelOrderCommandHandler(),
		RateOrder:           root.CreateRateOrderCommandHandler(),

		AssignDriver:     root.CreateAssignDriverCommandHandler(),
		StartPickup:      root.CreateStartPickupCommandHandler(),
		ConfirmPickup:    root.CreateConfirmPickupCommandHandler(),
		StartTransit:     root.CreateStartTransitCommandHandler(),
		MarkArrived:      root.CreateMarkArrivedCommandHandler(),
		CompleteDelivery: root.CreateCompleteDeliveryCommandHandler(),
		FailDelivery:     root.CreateFailDeliveryCommandHandler(),
		CancelDelivery:   root.CreateCancelDeliveryCommandHandler(),

		ProcessPayment:  root.CreateProcessPaymentCommandHandler(),
		CompletePayment: root.CreateCompletePaymentCommandHandler(),
		FailPayment:     root.CreateFailPaymentCommandHandler(),
		CancelPayment:   root.CreateCancelPaymentCommandHandler(),
		RefundPayment:   root.CreateRefundPaymentCommandHandler(),

		GetOrder:           root.CreateGetOrderQueryHandler(),
		GetOrderStatistics: root.CreateGetOrderStatisticsQueryHandler(),
		GetDelayedOrders:   root.CreateGetDelayedOrdersQueryHandler(),
	})

	e := echo.New()
	e.Use(middleware.Recover())
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
