package router

import (
	"context"
	"net/http"

	bizsvc "akaguriroo-backend/internal/application/business"
	healthsvc "akaguriroo-backend/internal/application/health"
	listsvc "akaguriroo-backend/internal/application/listings"
	"akaguriroo-backend/internal/application/media"
	"akaguriroo-backend/internal/application/reports"
	"akaguriroo-backend/internal/config"
	"akaguriroo-backend/internal/infrastructure/database"
	"akaguriroo-backend/internal/infrastructure/mediainspect"
	"akaguriroo-backend/internal/infrastructure/storage"
	bizhandler "akaguriroo-backend/internal/interfaces/handlers/business"
	healthhandler "akaguriroo-backend/internal/interfaces/handlers/health"
	listhandler "akaguriroo-backend/internal/interfaces/handlers/listings"
	lochandler "akaguriroo-backend/internal/interfaces/handlers/locations"
	"akaguriroo-backend/internal/middleware"
	"akaguriroo-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the connections the app is built on. DB and Rdb may be nil (routes
// needing them are not mounted); a nil Storage defaults to Supabase from config.
type Deps struct {
	DB       *gorm.DB
	Rdb      *redis.Client
	Storage  media.Storage
	Registry *prometheus.Registry
}

// CreateApp opens the database and Redis named in cfg and builds the app on them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var deps Deps
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL, cfg.IsProduction())
		if err != nil {
			return nil, nil, nil, err
		}
		deps.DB = db
	}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		deps.Rdb = redis.NewClient(opts)
	}
	app, err := New(cfg, deps)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, deps.DB, deps.Rdb, nil
}

// New wires middleware, services and routes over deps.
func New(cfg *config.Config, deps Deps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		EnableTrustedProxyCheck: true,
		BodyLimit:               cfg.Uploads.BodyLimitBytes,
		ErrorHandler: middleware.ErrorHandler(middleware.ErrorConfig{
			ExposeDetails: !cfg.IsProduction(),
			Rdb:           deps.Rdb,
		}),
	})

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m := metrics.New(reg)

	allowed := append([]string{}, cfg.AllowedOrigins...)
	if cfg.FrontendURL != "" {
		allowed = append(allowed, cfg.FrontendURL)
	}

	app.Use(recover.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.Metrics(m))
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: allowed,
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		AllowLocalhost: !cfg.IsProduction(),
		DevPassword:    cfg.DevPassword,
	}))
	app.Use(middleware.Session(deps.Rdb, cfg.SessionSecret))
	app.Use(middleware.HealthMarker(deps.Rdb))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	supabase := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseSecretKey, cfg.MediaBucket)
	checker := &healthsvc.Checker{Service: "akaguriroo-api", Rdb: deps.Rdb}
	if supabase.Configured() {
		checker.Storage = healthsvc.PingFunc(supabase.Ping)
	}
	hh := &healthhandler.Handlers{Rdb: deps.Rdb, Checker: checker, HealthAdminKey: cfg.HealthAdminKey}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	if deps.DB == nil {
		return app, nil
	}
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, err
	}
	checker.DB = sqlDB
	reader, err := database.Reader(deps.DB)
	if err != nil {
		return nil, err
	}

	store := deps.Storage
	if store == nil {
		store = supabase
	}
	mediaManager := &media.Manager{
		Storage:          store,
		Inspector:        mediainspect.MP4{},
		MaxVideoDuration: cfg.MaxVideoDuration(),
		Metrics:          m,
	}
	rs := &reports.Service{DB: reader}
	bs := &bizsvc.Service{DB: deps.DB}
	ls := &listsvc.Service{DB: deps.DB, Media: mediaManager, Metrics: m}

	api := app.Group("/api")

	loch := &lochandler.Handlers{Reports: rs}
	api.Get("/locations", loch.List)

	bh := &bizhandler.Handlers{Service: bs, Reports: rs}
	lh := &listhandler.Handlers{Service: ls, Uploads: cfg.Uploads}
	bg := api.Group("/businesses", middleware.RequireAuth())
	bg.Post("/", bh.CreateBusiness)
	bg.Patch("/", bh.UpdateBusiness)
	bg.Get("/orders", bh.Orders)
	bg.Get("/transactions", bh.Transactions)
	bg.Get("/products", lh.ListProducts)
	bg.Post("/products", lh.CreateProduct)
	bg.Patch("/products/:productId", lh.UpdateProduct)
	bg.Delete("/products/:productId", lh.DeleteProduct)

	return app, nil
}

// Ping verifies the connections CreateApp returned.
func Ping(ctx context.Context, db *gorm.DB, rdb *redis.Client) error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
	}
	if rdb != nil {
		return rdb.Ping(ctx).Err()
	}
	return nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
