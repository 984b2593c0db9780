package main

// initdb creates the restaurants and claims tables and their indexes.
// Statements are idempotent, so it is safe to run on every deploy.
//
//	DB_USER=... DB_HOST=... go run ./cmd/initdb
//
// With -hashpw it instead prints a bcrypt hash suitable for the
// ADMIN_PASSWORD_HASH variable and exits.

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/chefrecommends/backend/internal/database"
	"github.com/chefrecommends/backend/internal/utils"
)

func main() {
	hashpw := flag.String("hashpw", "", "print a bcrypt hash of the given password and exit")
	flag.Parse()

	if *hashpw != "" {
		hash, err := utils.HashPassword(*hashpw, bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	_ = godotenv.Load()

	db, err := database.Open(
		must("DB_USER"), os.Getenv("DB_PASS"),
		must("DB_HOST"), must("DB_PORT"), must("DB_NAME"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Init(ctx, db); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	log.Println("schema created")
}

func must(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
