package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/guard-roster-go/pkg/auth"
	"github.com/arnavshah/guard-roster-go/pkg/config"
)

func main() {
	// Load .env from project root
	config.LoadDotEnv()

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	userID := os.Args[1]
	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	apiKey := auth.NewManager("", secret).GenerateHMACKey(userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
}
