package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	marketapi "carbon_finance/pkg/api/market"
	"carbon_finance/pkg/api/model"
	scenarioapi "carbon_finance/pkg/api/scenario"
	"carbon_finance/pkg/core/inputs"
	coremarket "carbon_finance/pkg/core/market"
	"carbon_finance/pkg/core/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load fallback scalar assumptions
	defaults, err := inputs.LoadDefaults("config/defaults.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load config/defaults.yaml: %v\n", err)
		fmt.Println("  Running with zero defaults; model payloads must carry all rates")
	} else {
		fmt.Printf("[CONFIG] Loaded defaults (discount=%.2f, tax=%.2f)\n", defaults.DiscountRate, defaults.TaxRate)
	}

	// Initialize database; scenario persistence degrades to errors on
	// those endpoints if the database is unavailable, compute still works.
	if err := store.InitDB(context.Background()); err != nil {
		fmt.Printf("[WARNING] Database unavailable: %v\n", err)
		fmt.Println("  Scenario save/load endpoints will return errors")
	} else {
		defer store.Close()
		fmt.Println("[DB] Connected")
	}

	// Model compute endpoint
	modelHandler := model.NewHandler(defaults)
	http.HandleFunc("/api/model/compute", modelHandler.HandleCompute)

	// Scenario endpoints
	scenarioHandler := scenarioapi.NewHandler(store.NewScenarioRepo(), modelHandler)
	http.HandleFunc("/api/scenario/save", scenarioHandler.HandleSave)
	http.HandleFunc("/api/scenario/list", scenarioHandler.HandleList)
	http.HandleFunc("/api/scenario/load", scenarioHandler.HandleLoad)
	http.HandleFunc("/api/scenario/delete", scenarioHandler.HandleDelete)
	http.HandleFunc("/api/scenario/compare", scenarioHandler.HandleCompare)
	http.HandleFunc("/api/scenario/expected", scenarioHandler.HandleExpected)
	http.HandleFunc("/api/scenario/report", scenarioHandler.HandleReport)

	// Market price pre-fill endpoint
	priceURL := os.Getenv("MARKET_PRICE_URL")
	if priceURL != "" {
		fetcher := coremarket.NewPriceFetcher(priceURL, "data/cache")
		marketHandler := marketapi.NewHandler(fetcher)
		http.HandleFunc("/api/market/prices", marketHandler.HandlePrices)
		fmt.Println("[MARKET] Price fetcher enabled")
	} else {
		fmt.Println("[MARKET] MARKET_PRICE_URL not set; price endpoint disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST   /api/model/compute")
	fmt.Println("  - POST   /api/scenario/save")
	fmt.Println("  - GET    /api/scenario/list")
	fmt.Println("  - GET    /api/scenario/load?id=")
	fmt.Println("  - DELETE /api/scenario/delete?id=")
	fmt.Println("  - POST   /api/scenario/compare")
	fmt.Println("  - POST   /api/scenario/expected")
	fmt.Println("  - GET    /api/scenario/report?id=")
	fmt.Println("  - GET    /api/market/prices")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
