package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bistro/internal/config"
	"bistro/internal/database"
	"bistro/internal/handler"
	"bistro/internal/mw"
	"bistro/internal/notify"
	"bistro/internal/service"
	"bistro/internal/worker"
)

func main() {
	cfg := config.New()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	pub, err := notify.New(cfg.AMQPURI)
	if err != nil {
		slog.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer pub.Close()

	// Services
	authSvc := service.NewAuthService(db)
	menuSvc := service.NewMenuService(db)
	invSvc := service.NewInventoryService(db)
	orderSvc := service.NewOrderService(db, pub)
	billSvc := service.NewBillService(db, pub)
	discountSvc := service.NewDiscountService(db)

	// Worker
	stockWorker := worker.NewStockWorker(invSvc, pub)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/auth/otp/send", handler.SendOTPHandler(authSvc))
	r.Post("/api/auth/otp/verify", handler.VerifyOTPHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/auth/staff/register", handler.StaffRegisterHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/auth/staff/login", handler.StaffLoginHandler(authSvc, cfg.JWTSecret))
	r.Get("/api/menu", handler.ListMenuHandler(menuSvc))
	r.Get("/api/discounts/preview", handler.PreviewDiscountHandler(discountSvc))

	// Authenticated routes (customer or staff)
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Post("/api/orders", handler.PlaceOrderHandler(orderSvc))
		r.Get("/api/orders", handler.ListOrdersHandler(orderSvc))
		r.Get("/api/orders/{id}", handler.GetOrderHandler(orderSvc))

		r.Get("/api/bills/{id}", handler.GetBillHandler(billSvc))
		r.Post("/api/bills/{id}/discount", handler.ApplyDiscountHandler(billSvc))
		r.Delete("/api/bills/{id}/discount", handler.RemoveDiscountHandler(billSvc))
		r.Post("/api/bills/{id}/coins", handler.RedeemCoinsHandler(billSvc))
		r.Delete("/api/bills/{id}/coins", handler.RemoveCoinsHandler(billSvc))

		// Staff-only routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireStaff)

			r.Get("/api/kitchen/orders", handler.KitchenOrdersHandler(orderSvc))
			r.Patch("/api/orders/{id}/status", handler.UpdateOrderStatusHandler(orderSvc))
			r.Post("/api/orders/{id}/cancel", handler.CancelOrderHandler(orderSvc))

			r.Get("/api/bills", handler.ListUnpaidBillsHandler(billSvc))
			r.Post("/api/bills/{id}/discount/approve", handler.ApproveDiscountHandler(billSvc))
			r.Patch("/api/bills/{id}/pay", handler.MarkPaidHandler(billSvc))

			r.Get("/api/inventory/low-stock", handler.LowStockHandler(invSvc))
		})
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go stockWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
