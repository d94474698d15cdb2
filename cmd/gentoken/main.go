package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"Newsroom/internal/auth"
	"Newsroom/internal/config"
)

// gentoken issues a bearer token for an existing user, signed with JWT_SECRET
//
// Usage:
//
//	go run ./cmd/gentoken -user 1
//	go run ./cmd/gentoken -user 1 -ttl 1h
func main() {
	userID := flag.Int64("user", 0, "id of the user the token is issued for")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to JWT_TTL")
	flag.Parse()

	config.LoadDotEnvs()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.ConfigureLogging(cfg.LogLevel, true)

	if *userID <= 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *ttl <= 0 {
		*ttl = cfg.JWTTTL
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTIssuer, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token manager")
	}

	token, err := tokens.Issue(*userID)
	if err != nil {
		log.Fatal().Err(err).Int64("user_id", *userID).Msg("Failed to issue token")
	}

	log.Info().Int64("user_id", *userID).Dur("ttl", *ttl).Msg("Token issued")
	fmt.Println(token)
}
