package main

// importcsv bulk-loads restaurants from a CSV file.
//
//	go run ./cmd/importcsv <path-to-csv>
//
// Expected format (header row required):
//
//	name,street,city,state,zip,cuisine,phone,website,hours
//	"Joe's Pizza","123 Main St","Seattle","WA","98101","Italian,Pizza","206-555-0123","joespizza.com","11am-10pm"
//
// The cuisine column is a comma-separated tag list. Slugs are derived
// from name and city. Rows that fail validation are skipped with a
// warning so one bad row does not abort the whole import.

import (
	"context"
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/chefrecommends/backend/internal/database"
	"github.com/chefrecommends/backend/internal/model"
	"github.com/chefrecommends/backend/internal/repository"
	"github.com/chefrecommends/backend/internal/utils"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importcsv <path-to-csv>")
	}
	_ = godotenv.Load()

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	db, err := database.Open(
		must("DB_USER"), os.Getenv("DB_PASS"),
		must("DB_HOST"), must("DB_PORT"), must("DB_NAME"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	restaurants := repository.NewRestaurantRepo(db)

	r := csv.NewReader(f)
	r.FieldsPerRecord = 9
	if _, err := r.Read(); err != nil { // header
		log.Fatalf("read header: %v", err)
	}

	imported, skipped := 0, 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("skip row: %v", err)
			skipped++
			continue
		}

		rec := &model.Restaurant{
			Name:    strings.TrimSpace(row[0]),
			Street:  strings.TrimSpace(row[1]),
			City:    strings.TrimSpace(row[2]),
			State:   strings.TrimSpace(row[3]),
			Zip:     strings.TrimSpace(row[4]),
			Cuisine: splitTags(row[5]),
			Phone:   strings.TrimSpace(row[6]),
			Website: strings.TrimSpace(row[7]),
			Hours:   strings.TrimSpace(row[8]),
		}
		rec.Slug = utils.Slugify(rec.Name, rec.City)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = restaurants.Create(ctx, rec)
		cancel()
		if err != nil {
			log.Printf("skip %q: %v", rec.Name, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("done: imported=%d skipped=%d", imported, skipped)
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func must(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
