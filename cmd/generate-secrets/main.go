package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/charterhub/roster-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var adminPassword string
	var bcryptCost int
	flag.StringVar(&adminPassword, "admin-password", "", "also print a bcrypt hash for this admin password")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 12, "bcrypt cost used for the admin password hash")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("JWT Secret Generator for Charter Roster")
	fmt.Println("===========================================")
	fmt.Println()

	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)

	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcryptCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		fmt.Println()
		fmt.Println("Admin password hash (insert into admin_users.password_hash):")
		fmt.Printf("%s\n", string(hash))
	}

	fmt.Println()
	fmt.Println("IMPORTANT: Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
