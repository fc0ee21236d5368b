package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "petcare-marketplace/docs"
	memrt "petcare-marketplace/internal/adapters/realtime/memory"
	mem "petcare-marketplace/internal/adapters/storage/memory"
	pg "petcare-marketplace/internal/adapters/storage/postgres"
	"petcare-marketplace/internal/domain/messages"
	"petcare-marketplace/internal/domain/notifications"
	"petcare-marketplace/internal/domain/pets"
	"petcare-marketplace/internal/domain/profiles"
	"petcare-marketplace/internal/domain/providers"
	"petcare-marketplace/internal/domain/requests"
	"petcare-marketplace/internal/domain/reviews"
	"petcare-marketplace/internal/middleware"
	"petcare-marketplace/internal/platform/httpx"
	"petcare-marketplace/internal/platform/logger"
	"petcare-marketplace/internal/platform/metrics"
	"petcare-marketplace/internal/ports/auth"
	"petcare-marketplace/internal/ports/realtime"
	"petcare-marketplace/internal/ports/storage"
)

type Options struct {
	Logger       logger.Logger
	AuthVerifier auth.AuthVerifier // nil => modo dev (X-Debug-User-ID)

	// DB nil => repos en memoria.
	DB *sql.DB
	// Bus nil => bus en memoria (un solo proceso).
	Bus realtime.Bus

	// RateLimitRPS <= 0 desactiva el limitador de escrituras.
	RateLimitRPS   float64
	RateLimitBurst int
}

type repos struct {
	profiles      profiles.Repository
	pets          pets.Repository
	providers     providers.Repository
	requests      requests.Repository
	messages      messages.Repository
	reviews       reviews.Repository
	notifications notifications.Repository
	tx            storage.TxManager
}

func postgresRepos(db *sql.DB) repos {
	return repos{
		profiles:      pg.NewProfilesRepo(db),
		pets:          pg.NewPetsRepo(db),
		providers:     pg.NewProvidersRepo(db),
		requests:      pg.NewRequestsRepo(db),
		messages:      pg.NewMessagesRepo(db),
		reviews:       pg.NewReviewsRepo(db),
		notifications: pg.NewNotificationsRepo(db),
		tx:            pg.NewTxManager(db),
	}
}

func memoryRepos() repos {
	profileRepo := mem.NewProfileRepo()
	providerRepo := mem.NewProviderRepo(profileRepo)
	return repos{
		profiles:      profileRepo,
		pets:          mem.NewPetRepo(),
		providers:     providerRepo,
		requests:      mem.NewRequestRepo(providerRepo),
		messages:      mem.NewMessageRepo(),
		reviews:       mem.NewReviewRepo(providerRepo),
		notifications: mem.NewNotificationRepo(),
		tx:            mem.NewTxManager(),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var rp repos
	if opts.DB != nil {
		rp = postgresRepos(opts.DB)
	} else {
		log.Warn("no database configured, using in-memory store", nil)
		rp = memoryRepos()
	}

	bus := opts.Bus
	if bus == nil {
		bus = memrt.NewBus()
	}

	// Services por módulo
	profilesSvc := profiles.NewService(rp.profiles)
	petsSvc := pets.NewService(rp.pets)
	providersSvc := providers.NewService(rp.providers)
	notificationsSvc := notifications.NewService(rp.notifications, bus, log)
	requestsSvc := requests.NewService(rp.requests, petsSvc, providersSvc, rp.tx, notificationsSvc, log)
	messagesSvc := messages.NewService(rp.messages, requestsSvc, profilesSvc, notificationsSvc, bus, log)
	reviewsSvc := reviews.NewService(rp.reviews, requestsSvc, profilesSvc, notificationsSvc)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(metrics.Instrument)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.OK(w, http.StatusOK, map[string]string{"status": "ok"}, "")
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	limiter := middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, log)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthContext(opts.AuthVerifier))
		r.Use(profiles.EnsureMiddleware(profilesSvc, log))
		r.Use(limiter.Writes)

		// Rutas por módulo
		profiles.RegisterRoutes(r, profilesSvc, log)
		pets.RegisterRoutes(r, petsSvc, log)
		providers.RegisterRoutes(r, providersSvc, log)
		requests.RegisterRoutes(r, requestsSvc, log)
		messages.RegisterRoutes(r, messagesSvc, log)
		reviews.RegisterRoutes(r, reviewsSvc, log)
		notifications.RegisterRoutes(r, notificationsSvc, log)

		// Compatibilidad con los clientes que llaman a las funciones por nombre; los ids van en el body.
		r.Route("/functions/v1", func(r chi.Router) {
			r.Post("/create-service-request", requests.CreateHandler(requestsSvc, log))
			r.Post("/respond-to-request", requests.RespondHandler(requestsSvc, log))
			r.Post("/send-message", messages.SendHandler(messagesSvc, log))
			r.Post("/create-review", reviews.CreateHandler(reviewsSvc, log))
			r.Post("/search-providers", providers.SearchHandler(providersSvc, log))
		})
	})

	return r
}
