// Command migrate applies or rolls back the embedded schema migrations.
//
// Usage:
//
//	migrate up
//	migrate down
package main

import (
	"fmt"
	"os"

	"kidsmin-portal/backend/internal/config"
	"kidsmin-portal/backend/internal/db/migrate"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down")
		os.Exit(2)
	}
	direction := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Println("migrations", direction, "complete")
}
