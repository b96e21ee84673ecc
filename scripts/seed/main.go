// Seeds the job catalog with demo postings for local development.
//
//	go run ./scripts/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

type seedJob struct {
	title        string
	location     string
	description  string
	countries    []string
	trades       []string
	maxCountries int
	maxTrades    int
}

var jobs = []seedJob{
	{
		title:        "Welder (Overseas Placement)",
		location:     "Multiple",
		description:  "Certified welders for overseas industrial projects. Accommodation and transport provided.",
		countries:    []string{"UK", "Germany", "UAE", "Saudi Arabia"},
		trades:       []string{"Welding", "Pipefitting"},
		maxCountries: 2,
		maxTrades:    1,
	},
	{
		title:        "Electrician",
		location:     "Gulf Region",
		description:  "Industrial and residential electricians for long-term contracts.",
		countries:    []string{"UAE", "Qatar", "Saudi Arabia"},
		trades:       []string{"Electrical Installation", "Maintenance"},
		maxCountries: 3,
		maxTrades:    2,
	},
	{
		title:        "Heavy Equipment Operator",
		location:     "Europe",
		description:  "Crane and excavator operators with valid certification.",
		countries:    []string{"Germany", "Poland", "Romania"},
		trades:       []string{"Crane Operation", "Excavator Operation", "Rigging"},
		maxCountries: 2,
		maxTrades:    2,
	},
	{
		title:        "Registered Nurse",
		location:     "UK",
		description:  "Registered nurses with language test certification for NHS partner facilities.",
		countries:    []string{"UK"},
		trades:       []string{"General Nursing", "Critical Care"},
		maxCountries: 1,
		maxTrades:    1,
	},
}

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	for _, j := range jobs {
		var id int64
		err := conn.QueryRow(ctx, `
			INSERT INTO jobs (title, location, description, countries, trades,
				max_countries_selectable, max_trades_selectable)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			j.title, j.location, j.description,
			pq.Array(j.countries), pq.Array(j.trades),
			j.maxCountries, j.maxTrades,
		).Scan(&id)
		if err != nil {
			log.Fatalf("seed %q: %v", j.title, err)
		}
		fmt.Printf("seeded job %d: %s\n", id, j.title)
	}
}
