package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/fueltrack/internal/blob"
	"github.com/fdg312/fueltrack/internal/config"
	"github.com/fdg312/fueltrack/internal/foodlog"
	"github.com/fdg312/fueltrack/internal/nutrition"
	"github.com/fdg312/fueltrack/internal/profiles"
	"github.com/fdg312/fueltrack/internal/reports"
	"github.com/fdg312/fueltrack/internal/session"
	"github.com/fdg312/fueltrack/internal/storage"
	filestore "github.com/fdg312/fueltrack/internal/storage/file"
	"github.com/fdg312/fueltrack/internal/storage/memory"
	"github.com/fdg312/fueltrack/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config  *config.Config
	mux     *http.ServeMux
	slot    storage.SlotStorage
	session *session.Session
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initSlotStorage()

	sess, err := session.New(context.Background(), s.slot, log.Default())
	if err != nil {
		return nil, fmt.Errorf("load profile store: %w", err)
	}
	s.session = sess

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// initSlotStorage выбирает бэкенд слота: Postgres, файл или память.
func (s *Server) initSlotStorage() {
	if s.config.DatabaseURL != "" {
		log.Println("Подключение к PostgreSQL...")
		pg, err := postgres.New(context.Background(), s.config.DatabaseURL, s.config.SlotKey)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.slot = pg
			return
		}
	}

	if s.config.StoreFilePath != "" {
		fs, err := filestore.NewSlotStorage(s.config.StoreFilePath)
		if err != nil {
			log.Printf("Ошибка файлового хранилища: %v", err)
		} else {
			log.Printf("Используется файловое хранилище: %s", s.config.StoreFilePath)
			s.slot = fs
			return
		}
	}

	log.Println("Используется in-memory storage")
	s.slot = memory.NewSlotStorage()
}

// routes регистрирует маршруты
func (s *Server) routes() error {
	// Health check
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Profiles API
	profilesHandler := profiles.NewHandler(s.session)
	s.mux.HandleFunc("GET /v1/profiles", profilesHandler.HandleList)
	s.mux.HandleFunc("POST /v1/profiles", profilesHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/profiles/active", profilesHandler.HandleActive)
	s.mux.HandleFunc("DELETE /v1/profiles/active", profilesHandler.HandleDeleteActive)
	s.mux.HandleFunc("POST /v1/profiles/setup", profilesHandler.HandleSetup)
	s.mux.HandleFunc("POST /v1/profiles/switch", profilesHandler.HandleSwitch)

	// Food log API
	foodlogHandler := foodlog.NewHandler(s.session)
	s.mux.HandleFunc("GET /v1/log/today", foodlogHandler.HandleToday)
	s.mux.HandleFunc("DELETE /v1/log/today", foodlogHandler.HandleClearToday)
	s.mux.HandleFunc("POST /v1/log/entries", foodlogHandler.HandleAddEntry)
	s.mux.HandleFunc("GET /v1/log/totals/weekly", foodlogHandler.HandleWeeklyTotals)
	s.mux.HandleFunc("GET /v1/log/totals/monthly", foodlogHandler.HandleMonthlyTotals)
	s.mux.HandleFunc("GET /v1/foods/suggestions", foodlogHandler.HandleSuggestions)

	// Goals API
	nutritionHandler := nutrition.NewHandler(s.session)
	s.mux.HandleFunc("GET /v1/goals", nutritionHandler.HandleGoals)
	s.mux.HandleFunc("POST /v1/goals/estimate", nutritionHandler.HandleEstimate)

	// Reports API
	blobStore, blobMode, err := blob.NewBlobStore(s.config, log.Default())
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}
	log.Printf("reports blob mode: %s", blobMode)
	reportsHandler := reports.NewHandler(s.session, blobStore, s.config.S3.PresignTTLSeconds, s.config.ReportsMaxRangeDays, log.Default())
	s.mux.HandleFunc("GET /v1/reports/export", reportsHandler.HandleExport)
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	return nil
}

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

// Handler returns the full middleware chain, outermost first:
// CORS → Rate Limit → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Close releases the storage backend.
func (s *Server) Close() error {
	return s.slot.Close()
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Profiles API: http://localhost%s/v1/profiles\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}
