package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"soggiorno/internal/api"
	"soggiorno/internal/config"
	"soggiorno/internal/repository"
	"soggiorno/internal/service"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ledger := repository.NewCapacityLedger(cfg.Product.TotalSlotsPerDate)
	bookings := repository.NewBookingRepository()

	sender := service.NewSenderService(cfg)
	svc := service.NewBookingService(cfg, ledger, bookings, sender)
	jobs := service.NewJobService(ledger, bookings)

	bookingHandler := api.NewBookingHandler(svc, cfg)
	adminHandler := api.NewAdminHandler(svc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/availability", bookingHandler.CheckAvailability).Methods("GET")
	r.HandleFunc("/product", bookingHandler.GetProduct).Methods("GET")
	r.HandleFunc("/quote", bookingHandler.Quote).Methods("POST")
	r.HandleFunc("/book", bookingHandler.Book).Methods("POST")
	r.HandleFunc("/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/bookings/{id}", bookingHandler.CancelBooking).Methods("DELETE")

	// Admin endpoints, single trusted caller
	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/capacity", adminHandler.UpdateCapacity).Methods("PUT")

	c := cron.New()
	if _, err := c.AddFunc("@daily", jobs.Run); err != nil {
		log.Fatalf("Failed to schedule housekeeping job: %v", err)
	}
	c.Start()

	// CORS for the embeddable widget
	origins := []string{"*"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(r)))
}
