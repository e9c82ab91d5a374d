// Command token mints a bearer token for local development.
//
//	go run ./cmd/token -owner alice
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sundayezeilo/readlater/internal/app"
	"github.com/sundayezeilo/readlater/internal/auth"
	"github.com/sundayezeilo/readlater/internal/config"
)

func main() {
	owner := flag.String("owner", "", "owner id to put in the token subject")
	flag.Parse()

	if *owner == "" {
		log.Fatal("-owner is required")
	}

	if err := app.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		log.Fatal(err)
	}

	token, err := tokens.Issue(*owner)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
