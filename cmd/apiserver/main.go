// Command apiserver starts the exposure audit HTTP API.
// Usage: go run ./cmd/apiserver [listen-addr]
// Default listen address: :8080
package main

import (
	"log"
	"os"

	"github.com/georgebossman22/appear-ai-audit-working/internal/app"
	"github.com/georgebossman22/appear-ai-audit-working/internal/querier"
	"github.com/georgebossman22/appear-ai-audit-working/internal/server"
)

func main() {
	addr := ":8080"
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}

	appCfg := app.DefaultConfig()
	appCfg.QuerierCfg = querier.ConfigFromEnv(appCfg.QuerierCfg)

	s, err := server.NewServer(server.Config{
		ListenAddr: addr,
		AppConfig:  appCfg,
	})
	if err != nil {
		log.Fatalf("creating server: %v", err)
	}
	defer s.Close()

	log.Printf("exposure audit API listening on %s", addr)
	if err := s.HTTPServer().ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
