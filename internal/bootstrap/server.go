package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okunev/spotbooking/api"
	"github.com/okunev/spotbooking/config"
	"github.com/okunev/spotbooking/internal/service/booking"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase) error {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	api.NewAvailabilityHandler(bookingSvc).Register(v1.Group("/availability"))
	api.NewRefundHandler(bookingSvc).Register(v1.Group("/refunds"))
	api.NewReservationHandler(bookingSvc).Register(v1.Group("/reservations"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFile("/swagger/spotbooking.swagger.json", filepath.Join(cfg.HTTP.SwaggerDir, "spotbooking.swagger.json"))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/spotbooking.swagger.json"))))
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
