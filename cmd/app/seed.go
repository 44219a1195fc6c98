package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"wellpath-backend-V2.0/internal/model"
	"wellpath-backend-V2.0/internal/repository"
)

// runSeed interactively creates an initial account so a fresh deployment
// has someone who can log in. Invoked with the -seed flag after migrations.
func runSeed() {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Admin email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("failed to read email: %v", err)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		log.Fatal("email cannot be empty")
	}

	fmt.Print("Admin password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	if len(passwordBytes) == 0 {
		log.Fatal("password cannot be empty")
	}

	userRepo := repository.NewUserRepository()
	exists, err := userRepo.EmailExists(email)
	if err != nil {
		log.Fatalf("failed to check existing users: %v", err)
	}
	if exists {
		log.Printf("user %s already exists, nothing to do", email)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword(passwordBytes, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := model.User{
		Username: strings.SplitN(email, "@", 2)[0],
		Email:    email,
		Password: string(hashed),
	}
	if err := userRepo.CreateUser(&user); err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	log.Printf("seeded user %s (id %d)", email, user.ID)
}
