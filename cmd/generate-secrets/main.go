package main

import (
	"fmt"
	"log"

	"github.com/tunride/ride-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for TunRide")
	fmt.Println("===========================================")
	fmt.Println()

	secrets, err := utils.GenerateServerSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secrets.JWTSecret)
	fmt.Printf("MAINTENANCE_SECRET=%s\n", secrets.MaintenanceSecret)
	fmt.Println()
	fmt.Println("Keep these secrets out of version control.")
	fmt.Println("===========================================")
}
