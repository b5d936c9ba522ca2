// Command sandbox serves an in-memory reservation backend and walks one demo
// booking through the wizard against it, refreshing the demo user's data
// afterwards.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/reservekit/pkg/config"
	"github.com/dmitrymomot/reservekit/pkg/environment"
	"github.com/dmitrymomot/reservekit/pkg/httpserver"
	"github.com/dmitrymomot/reservekit/pkg/i18n"
	"github.com/dmitrymomot/reservekit/pkg/logger"
	"github.com/dmitrymomot/reservekit/pkg/redis"
	"github.com/dmitrymomot/reservekit/pkg/requestid"
	"github.com/dmitrymomot/reservekit/pkg/reservationapi"
	"github.com/dmitrymomot/reservekit/pkg/reservationapi/apitest"
	"github.com/dmitrymomot/reservekit/svc/booking"
	"github.com/dmitrymomot/reservekit/svc/refresh"
	"github.com/dmitrymomot/reservekit/svc/userdata"
)

const demoUser = "u_demo"

type sandboxConfig struct {
	UseRedis bool `env:"SANDBOX_USE_REDIS" envDefault:"false"`
	Demo     bool `env:"SANDBOX_DEMO_BOOKING" envDefault:"true"`
}

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	logOpts, err := logger.FromConfig(logCfg)
	if err != nil {
		slog.Error("invalid logger config", logger.Error(err))
		os.Exit(1)
	}
	env := environment.Parse(logCfg.Env)
	log := logger.New(append(logOpts, logger.WithContextExtractors(environment.LoggerExtractor(), requestid.LoggerExtractor()))...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = environment.WithContext(ctx, env)

	if err := run(ctx, log, env); err != nil {
		log.ErrorContext(ctx, "sandbox stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, env environment.Environment) error {
	var (
		cfg        sandboxConfig
		serverCfg  httpserver.Config
		bookingCfg booking.Config
		storeCfg   userdata.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&cfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&bookingCfg) },
		func() error { return config.Load(&storeCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	var (
		store  userdata.Store
		checks []func(context.Context) error
	)
	if cfg.UseRedis {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg, log)
		if err != nil {
			return err
		}
		defer client.Close()
		store = userdata.NewRedisStore(client, storeCfg)
		checks = append(checks, redis.Healthcheck(client))
	} else {
		store = userdata.NewMemoryStore(storeCfg.CacheCapacity)
	}

	registry := prometheus.NewRegistry()
	backend := apitest.NewBackend()

	router := chi.NewRouter()
	router.Use(requestid.Middleware, middleware.Recoverer, environment.Middleware(env))
	router.Mount("/api", backend.Handler())
	router.Get("/health/live", httpserver.HealthCheckHandler(log))
	router.Get("/health/ready", httpserver.HealthCheckHandler(log, checks...))
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := httpserver.New(serverCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr string) {
			if !cfg.Demo {
				return
			}
			go func() {
				if err := demoBooking(ctx, log, addr, bookingCfg, store, registry); err != nil {
					log.ErrorContext(ctx, "demo booking failed", logger.Error(err))
				}
			}()
		}),
	)
	return server.Run(ctx, router)
}

// demoBooking books a tasting menu for demoUser through the API served at addr.
func demoBooking(ctx context.Context, log *slog.Logger, addr string, cfg booking.Config, store userdata.Store, reg prometheus.Registerer) error {
	if strings.HasPrefix(addr, ":") || strings.HasPrefix(addr, "[::]") {
		addr = "localhost" + addr[strings.LastIndex(addr, ":"):]
	}
	api, err := reservationapi.NewClient(reservationapi.Config{
		BaseURL: "http://" + addr + "/api",
		Token:   demoUser,
		Timeout: 10 * time.Second,
	}, reservationapi.WithLogger(log))
	if err != nil {
		return err
	}

	coordinator, err := refresh.New(
		userdata.Operations(api, store, demoUser),
		refresh.WithLogger(log),
		refresh.WithMetrics(reg),
	)
	if err != nil {
		return err
	}

	tr, err := booking.NewTranslator(ctx, i18n.WithLogger(log))
	if err != nil {
		return err
	}

	w, err := booking.New(cfg, booking.Service{
		ID:        "svc_tasting",
		VenueID:   "venue_roma",
		Name:      "Tasting menu",
		BasePrice: 150000,
		PerPerson: true,
		MaxGuests: 8,
		Currency:  "MXN",
	}, api,
		booking.WithLogger(log),
		booking.WithTranslator(tr),
		booking.WithRefresher(coordinator, refresh.DefaultOptions()),
	)
	if err != nil {
		return err
	}

	slot := time.Now().AddDate(0, 0, 7)
	steps := []func() error{
		func() error { return w.SelectDate(slot.Format(time.DateOnly)) },
		func() error { return w.SelectTime("20:00") },
		func() error { return w.Next(ctx) },
		func() error { return w.SetGuestCount(2) },
		func() error { return w.Next(ctx) },
		func() error { return w.SetContactField(booking.FieldName, "Demo Guest") },
		func() error { return w.SetContactField(booking.FieldEmail, "demo@example.com") },
		func() error { return w.SetContactField(booking.FieldPhone, "+52 55 0000 0000") },
		func() error { return w.Next(ctx) },
		func() error { return w.SetPaymentMethod("card") },
		func() error { return w.Next(ctx) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return errors.Join(errors.New("wizard stopped on step "+w.Step()), err)
		}
	}

	conf, _ := w.Confirmation()
	total, err := conf.Breakdown.Format(language.Make(cfg.Language))
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "demo reservation confirmed",
		logger.ReservationID(conf.Reservation.ID),
		slog.String("total", total.Total),
		slog.String("check_in", conf.CheckIn),
	)

	outcomes, err := w.RefreshResult().Await()
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "demo user data refreshed",
		slog.Int("areas", len(outcomes)),
		slog.Int("failed", len(refresh.Rejected(outcomes))),
	)
	return nil
}
