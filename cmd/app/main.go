package main

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/catfoodlab/catfood-backend/internal/config"
	"github.com/catfoodlab/catfood-backend/internal/ingestion"
	"github.com/catfoodlab/catfood-backend/internal/ingredient"
	"github.com/catfoodlab/catfood-backend/internal/llm"
	"github.com/catfoodlab/catfood-backend/internal/product"
	"github.com/catfoodlab/catfood-backend/internal/search"
	"github.com/catfoodlab/catfood-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	initLogger(cfg)

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg)
	defer db.Close()
	mustBootstrapSchema(db)

	// feature wiring: repository -> service -> handler, as in every package
	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	ingredientService := ingredient.NewService(ingredient.NewPostgresRepository(db))
	ingredientHandler := ingredient.NewHandler(ingredientService)

	ingestionHandler := ingestion.NewHandler(ingestion.NewService(productService, ingredientService))

	userHandler := user.NewHandler(user.NewService(user.NewPostgresRepository(db)))

	// The completion client is configured once at boot and injected; the
	// extractor never touches process-wide state.
	completer := &llm.Client{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: 0.1,
	}
	searchService := search.NewService(
		search.NewExtractor(completer, cfg.LLMTimeout),
		search.NewExecutor(db, cfg.DBTimeout),
	)
	searchHandler := search.NewHandler(searchService)

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	ingredientHandler.RegisterPublicRoutes(app)
	searchHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	ingredientHandler.RegisterProtectedRoutes(app)
	ingestionHandler.RegisterProtectedRoutes(app)

	zap.S().Infow("starting catalog server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}

func initLogger(cfg config.Config) {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(cfg config.Config) *sql.DB {
	if cfg.DatabaseURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

// mustBootstrapSchema creates the catalog tables when missing. The
// embedding_id column is reserved for a vector index that is not part of the
// search path.
func mustBootstrapSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cat_food_product (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			price DOUBLE PRECISION,
			age_group TEXT,
			food_type TEXT,
			description TEXT,
			full_ingredient_list TEXT,
			image_url TEXT,
			shopping_url TEXT,
			embedding_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ingredient (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			nutritional_value JSONB,
			common_allergens JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS product_ingredient_association (
			product_id INT NOT NULL REFERENCES cat_food_product(id),
			ingredient_id INT NOT NULL REFERENCES ingredient(id),
			PRIMARY KEY (product_id, ingredient_id)
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_user (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cat_food_product_name ON cat_food_product (name)`,
		`CREATE INDEX IF NOT EXISTS idx_cat_food_product_brand ON cat_food_product (brand)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
