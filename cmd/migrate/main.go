// migrate aplica el esquema del libro de stock con las migraciones embebidas.
//
// Uso: go run ./cmd/migrate [up|down|status]
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger-api/pkg/config"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.OpenMigrationDB(cfg.DB.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(db, command); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Migraciones: %s completado\n", command)
}
