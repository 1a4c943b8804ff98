package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"quote-configurator/app/controller"
	"quote-configurator/app/router"
	"quote-configurator/booking"
	"quote-configurator/catalog"
	"quote-configurator/config"
	"quote-configurator/db"
	"quote-configurator/pricing"
	"quote-configurator/ratelimit"
	"quote-configurator/repository"
	"quote-configurator/scheduler"
	"quote-configurator/service"
	"quote-configurator/utils"
)

// contactCooldown spaces out contact form messages per client
const contactCooldown = time.Minute

// sessionCooldown spaces out session creation per client
const sessionCooldown = 2 * time.Second

// App is the wired HTTP application
type App struct {
	Handler http.Handler
	closers []func() error
}

// Close releases the database and the limiter store
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("⚠️ Close: %v", err)
		}
	}
}

// Initialize initializes the application
func Initialize(cfg *config.Config) (*App, error) {
	a := &App{}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekend, err := scheduler.ParseWeekend(cfg.WeekendDays)
	if err != nil {
		return nil, err
	}

	// Catalog aggregate, validated once
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	currency := cfg.Currency
	if currency == "" {
		currency = cat.Pricing().Currency
	}
	money := utils.NewMoneyFormatter(cfg.Locale, currency)

	// Booking store: Postgres when configured, memory otherwise
	var bookings repository.BookingRepositoryInterface
	var contacts repository.ContactMessageRepositoryInterface
	if cfg.DatabaseURL != "" {
		if err := db.InitDB(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.CloseDB)
		repo := repository.NewBookingRepository()
		bookings, contacts = repo, repo
	} else {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		log.Printf("⚠️ No database configured, bookings are kept in memory")
		repo := repository.NewInMemoryBookingRepository()
		bookings, contacts = repo, repo
	}

	// Busy calendar and date blocking
	var calendar service.CalendarServiceInterface = service.NoopCalendarService{}
	if cfg.CalendarEnabled() {
		cs, err := service.NewCalendarService(cfg.GoogleCredentialsPath, cfg.GoogleCalendarID, loc)
		if err != nil {
			return nil, err
		}
		calendar = cs
	} else {
		log.Printf("⚠️ Google Calendar not configured, every business day is available")
	}

	var notifier service.Notifier = service.LogNotifier{}
	if cfg.SMTPEnabled() {
		notifier = service.NewSMTPNotifier(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.NotifyEmail,
		}, money)
	}

	// Cool-down store: badger on disk when a directory is set
	var sessionLimiter, submitLimiter, contactLimiter ratelimit.Limiter
	if cfg.RateLimitDir != "" {
		store, err := ratelimit.OpenBadger(cfg.RateLimitDir)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		sessionLimiter = ratelimit.NewBadgerLimiter(store, sessionCooldown)
		submitLimiter = ratelimit.NewBadgerLimiter(store, cfg.SubmitCooldown)
		contactLimiter = ratelimit.NewBadgerLimiter(store, contactCooldown)
	} else {
		sessionLimiter = ratelimit.NewMemoryLimiter(sessionCooldown, time.Now)
		submitLimiter = ratelimit.NewMemoryLimiter(cfg.SubmitCooldown, time.Now)
		contactLimiter = ratelimit.NewMemoryLimiter(contactCooldown, time.Now)
	}

	logo := ""
	if cfg.LogoPath != "" {
		if logo, err = service.LoadLogo(cfg.LogoPath); err != nil {
			log.Printf("⚠️ Logo not loaded, documents are rendered without it: %v", err)
		}
	}

	// Services
	engine := pricing.NewEngine(cat)
	bookingService := service.NewBookingService(bookings, contacts, notifier)
	documents := service.NewQuoteDocumentService(money, logo, cfg.ChromePath)
	sessions := service.NewSessionService(cat, engine, booking.Deps{
		Scheduler:  scheduler.New(weekend, loc),
		Busy:       calendar,
		Sink:       bookingService,
		Blocker:    calendar,
		LeadDays:   cfg.ScheduleLeadDays,
		WindowDays: cfg.ScheduleWindowDays,
		Now:        time.Now,
	}, documents, 0)

	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(cat, service.NewQuoteService(cat, engine)),
		Session: controller.NewSessionController(sessions),
		Booking: controller.NewBookingController(bookingService),
		Contact: controller.NewContactController(bookingService),
	}

	if cfg.AdminToken == "" {
		log.Printf("⚠️ ADMIN_TOKEN is not set, admin routes are disabled")
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers, router.Guards{
		SessionLimiter: sessionLimiter,
		SubmitLimiter:  submitLimiter,
		ContactLimiter: contactLimiter,
		AdminToken:     cfg.AdminToken,
	})
	a.Handler = mux

	return a, nil
}
