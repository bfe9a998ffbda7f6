// Command token prints a bearer token signed with the configured secret.
// It stands in for the identity provider during local development.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sangkips/garage-pos-api/internal/config"
	"github.com/sangkips/garage-pos-api/pkg/utils"
)

func main() {
	subject := flag.String("user", "dev-user", "user id placed in the sub claim")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tokens := utils.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience)
	token, err := tokens.Issue(*subject, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
