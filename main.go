package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Shanilka-Yapa/Libricore/config"
	"github.com/Shanilka-Yapa/Libricore/controllers"
	"github.com/Shanilka-Yapa/Libricore/database"
	"github.com/Shanilka-Yapa/Libricore/middleware"
	"github.com/Shanilka-Yapa/Libricore/services"
	"github.com/Shanilka-Yapa/Libricore/utils"
	"github.com/gorilla/mux"
)

func initSweepScheduler(cfg *config.Config, db *database.Database, ledger *services.SettlementService, emailService *services.EmailService) {
	sweeper := services.NewSweepService(db, ledger, emailService)
	sweeper.Start(time.Duration(cfg.Circulation.SweepInterval) * time.Minute)
	log.Println("Overdue sweep scheduler started")
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.GetMetrics().Snapshot())
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	emailService := services.NewEmailService(cfg)
	settlementService := services.NewSettlementService(db, []byte(cfg.LedgerHMACKey))
	loanService := services.NewLoanService(db, settlementService, cfg.Circulation.FinePerDay)
	memberService := services.NewMemberService(db)
	bookService := services.NewBookService(db)

	initSweepScheduler(cfg, db, settlementService, emailService)

	router := mux.NewRouter()
	router.Use(middleware.CORS)

	authController := controllers.NewAuthController(db, cfg)
	loanController := controllers.NewLoanController(loanService, settlementService)
	memberController := controllers.NewMemberController(memberService)
	bookController := controllers.NewBookController(bookService, cfg.UploadDir)

	// Public authentication routes
	router.HandleFunc("/api/auth/signup", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signin", authController.SignIn).Methods("POST")

	// Uploaded cover images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Protected routes
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Authenticate([]byte(authController.GetJWTKey())))
	protected.Use(middleware.Logging)
	protected.Use(middleware.RateLimit(utils.NewRateLimiter(100, time.Minute)))

	// Borrowing lifecycle routes
	protected.HandleFunc("/borrowings", loanController.List).Methods("GET")
	protected.HandleFunc("/borrowings", loanController.Create).Methods("POST")
	protected.HandleFunc("/borrowings/overdue", loanController.Overdue).Methods("GET")
	protected.HandleFunc("/borrowings/paid", loanController.Settlements).Methods("GET")
	protected.HandleFunc("/borrowings/paid/export", loanController.ExportSettlements).Methods("GET")
	protected.HandleFunc("/borrowings/stats", loanController.Stats).Methods("GET")
	protected.HandleFunc("/borrowings/reconcile", loanController.Reconcile).Methods("POST")
	protected.HandleFunc("/borrowings/{id}/status", loanController.UpdateStatus).Methods("PUT")
	protected.HandleFunc("/borrowings/{id}/pay", loanController.Pay).Methods("PUT")
	protected.HandleFunc("/borrowings/{id}", loanController.Delete).Methods("DELETE")

	// Member routes
	protected.HandleFunc("/members", memberController.List).Methods("GET")
	protected.HandleFunc("/members", memberController.Create).Methods("POST")

	// Catalogue routes
	protected.HandleFunc("/books", bookController.List).Methods("GET")
	protected.HandleFunc("/books", bookController.Create).Methods("POST")
	protected.HandleFunc("/books/{id}", bookController.Delete).Methods("DELETE")

	// Operational metrics
	protected.HandleFunc("/metrics", metricsHandler).Methods("GET")

	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
