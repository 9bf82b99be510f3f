package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/posbill/billing-service/internal/messaging"
	"github.com/posbill/billing-service/internal/orders"
	"github.com/posbill/billing-service/internal/payments"
	"github.com/posbill/billing-service/internal/reports"
	"github.com/posbill/billing-service/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "billing", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("billing", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	razorpayKeyID := os.Getenv("RAZORPAY_KEY_ID")
	razorpayKeySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if razorpayKeyID == "" || razorpayKeySecret == "" {
		logger.Error("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET environment variables are required")
		os.Exit(1)
	}

	gatewayURL := os.Getenv("RAZORPAY_URL")
	if gatewayURL == "" {
		gatewayURL = payments.DefaultGatewayURL
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var publisher orders.EventPublisher
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		producer := messaging.NewProducer(strings.Split(kafkaBrokers, ","))
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	repo := orders.NewOrderRepository(db)
	verifier := payments.NewVerifier(razorpayKeySecret)
	orderService := orders.NewService(repo, verifier, publisher, logger)
	reportService := reports.NewService(repo)
	gatewayClient := payments.NewClient(gatewayURL, razorpayKeyID, razorpayKeySecret, httpClient)

	orderHandler := orders.NewHandler(orderService, logger)
	reportHandler := reports.NewHandler(reportService, logger)
	paymentHandler := payments.NewHandler(gatewayClient, orderService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("DELETE /orders/{orderId}", telemetry.WithHTTPRoute(orderHandler.HandleDelete))
	mux.HandleFunc("GET /orders/latest", telemetry.WithHTTPRoute(orderHandler.HandleLatest))
	mux.HandleFunc("GET /orders/paginated", telemetry.WithHTTPRoute(reportHandler.HandlePaginated))
	mux.HandleFunc("GET /orders/export", telemetry.WithHTTPRoute(reportHandler.HandleExport))
	mux.HandleFunc("POST /payments/create-order", telemetry.WithHTTPRoute(paymentHandler.HandleCreateOrder))
	mux.HandleFunc("POST /payments/verify", telemetry.WithHTTPRoute(paymentHandler.HandleVerify))
	mux.HandleFunc("GET /dashboard", telemetry.WithHTTPRoute(reportHandler.HandleDashboard))
	mux.HandleFunc("GET /dashboard/monthly-sales", telemetry.WithHTTPRoute(reportHandler.HandleMonthlySales))
	mux.HandleFunc("GET /dashboard/weekly-sales", telemetry.WithHTTPRoute(reportHandler.HandleWeeklySales))
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "billing",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting billing service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
