package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/nutriplan/backend/internal/auth"
	"github.com/nutriplan/backend/internal/blob"
	"github.com/nutriplan/backend/internal/blocks"
	"github.com/nutriplan/backend/internal/config"
	"github.com/nutriplan/backend/internal/dishes"
	"github.com/nutriplan/backend/internal/items"
	"github.com/nutriplan/backend/internal/nutrition"
	"github.com/nutriplan/backend/internal/plans"
	"github.com/nutriplan/backend/internal/reports"
	"github.com/nutriplan/backend/internal/storage"
	"github.com/nutriplan/backend/internal/storage/memory"
	"github.com/nutriplan/backend/internal/storage/postgres"
	"github.com/nutriplan/backend/internal/users"
	"github.com/nutriplan/backend/internal/weights"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Users API
	usersHandler := users.NewHandler(users.NewService(s.getUsersStorage()))
	s.mux.HandleFunc("GET /v1/users", usersHandler.HandleList)
	s.mux.HandleFunc("POST /v1/users", usersHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/users/{id}", usersHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/users/{id}", usersHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/users/{id}", usersHandler.HandleDelete)

	// Dishes API
	blobStore := s.initBlobStore()
	dishesService := dishes.NewService(
		s.getDishesStorage(),
		blobStore,
		s.config.UploadMaxMB,
		s.config.UploadAllowedMime,
		s.config.Blob.S3.PresignTTLSeconds,
	)
	dishesHandler := dishes.NewHandler(dishesService)
	s.mux.HandleFunc("GET /v1/dishes", dishesHandler.HandleList)
	s.mux.HandleFunc("POST /v1/dishes", dishesHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/dishes/{id}", dishesHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/dishes/{id}", dishesHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/dishes/{id}", dishesHandler.HandleDelete)

	// POST /v1/dishes/{id}/image - upload dish image (multipart)
	s.mux.HandleFunc("POST /v1/dishes/{id}/image", dishesHandler.HandleUploadImage)

	// GET /v1/dishes/{id}/image - download or redirect to presigned URL
	s.mux.HandleFunc("GET /v1/dishes/{id}/image", dishesHandler.HandleGetImage)

	// Plans API
	plansStorage := s.getPlansStorage()
	mealStorage := s.getMealStorage()
	plansHandler := plans.NewHandler(plans.NewService(plansStorage, mealStorage))
	s.mux.HandleFunc("GET /v1/plans", plansHandler.HandleList)
	s.mux.HandleFunc("POST /v1/plans", plansHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/plans/{id}", plansHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/plans/{id}", plansHandler.HandleDelete)

	// POST /v1/plans/copy - copy all blocks and items to another day
	s.mux.HandleFunc("POST /v1/plans/copy", plansHandler.HandleCopy)

	// Blocks API
	blocksHandler := blocks.NewHandler(blocks.NewService(mealStorage))
	s.mux.HandleFunc("GET /v1/blocks", blocksHandler.HandleList)
	s.mux.HandleFunc("POST /v1/blocks", blocksHandler.HandleCreate)
	s.mux.HandleFunc("PUT /v1/blocks/{id}", blocksHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/blocks/{id}", blocksHandler.HandleDelete)

	// Items API
	itemsHandler := items.NewHandler(items.NewService(mealStorage, s.getDishesStorage()))
	s.mux.HandleFunc("GET /v1/items", itemsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/items", itemsHandler.HandleCreate)
	s.mux.HandleFunc("PATCH /v1/items/{id}", itemsHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/items/{id}", itemsHandler.HandleDelete)

	// Nutrition API
	nutritionService := nutrition.NewService(mealStorage)
	nutritionHandler := nutrition.NewHandler(nutritionService, plansStorage)

	// GET /v1/plans/{id}/nutrition - daily totals and dish listing
	s.mux.HandleFunc("GET /v1/plans/{id}/nutrition", nutritionHandler.HandleGet)

	// Reports API
	reportsHandler := reports.NewHandler(reports.NewGenerator(plansStorage, nutritionService))

	// GET /v1/plans/{id}/report - PDF report for the day
	s.mux.HandleFunc("GET /v1/plans/{id}/report", reportsHandler.HandleGetPlanReport)

	// Weights API
	weightsHandler := weights.NewHandler(weights.NewService(s.getWeightsStorage()))
	s.mux.HandleFunc("GET /v1/weights", weightsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/weights", weightsHandler.HandleAdd)
	s.mux.HandleFunc("DELETE /v1/weights/{id}", weightsHandler.HandleDelete)
}

// getUsersStorage returns the users storage based on storage type
func (s *Server) getUsersStorage() storage.UsersStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetUsersStorage()
	case *postgres.PostgresStorage:
		return st.GetUsersStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getDishesStorage returns the dishes storage based on storage type
func (s *Server) getDishesStorage() storage.DishesStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetDishesStorage()
	case *postgres.PostgresStorage:
		return st.GetDishesStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getPlansStorage returns the plans storage based on storage type
func (s *Server) getPlansStorage() storage.PlansStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetPlansStorage()
	case *postgres.PostgresStorage:
		return st.GetPlansStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getMealStorage returns the meal blocks/items storage based on storage type
func (s *Server) getMealStorage() storage.MealStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetMealStorage()
	case *postgres.PostgresStorage:
		return st.GetMealStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getWeightsStorage returns the weight history storage based on storage type
func (s *Server) getWeightsStorage() storage.WeightsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetWeightsStorage()
	case *postgres.PostgresStorage:
		return st.GetWeightsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// initBlobStore initializes the blob store for dish images.
// Returns nil in local mode: dish images then live in the database.
func (s *Server) initBlobStore() blob.Store {
	log.Printf("INFO blob: initializing store (BLOB_MODE=%s)", s.config.Blob.Mode)
	store, mode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize store: %v", err)
	}
	log.Printf("INFO blob: dish image mode: %s", mode)
	return store
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Plans API: http://localhost%s/v1/plans\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
