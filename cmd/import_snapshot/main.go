// import_snapshot carga el inventario base del corte desde el export CSV del ERP.
//
// Uso: go run ./cmd/import_snapshot -file inventario.csv [-encoding latin1] [-sep ";"] [-dry-run]
// Usa la misma configuración de base de datos que la API (DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/erpcsv"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger-api/pkg/config"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

func main() {
	path := flag.String("file", "", "Ruta del CSV exportado por el ERP (obligatorio)")
	encoding := flag.String("encoding", "latin1", "Codificación del archivo: latin1, windows-1252, utf-8")
	sep := flag.String("sep", ";", "Separador de columnas")
	dryRun := flag.Bool("dry-run", false, "Solo valida el archivo, no escribe")
	flag.Parse()

	if strings.TrimSpace(*path) == "" {
		fmt.Fprintln(os.Stderr, "-file es obligatorio")
		os.Exit(1)
	}
	comma, size := utf8.DecodeRuneInString(*sep)
	if size == 0 || size != len(*sep) {
		fmt.Fprintln(os.Stderr, "-sep debe ser un solo carácter")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_snapshot"})

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("abrir archivo")
	}
	defer f.Close()

	reader := erpcsv.Reader{Comma: comma}
	if *dryRun {
		rows, err := reader.ReadSnapshot(f, *encoding)
		if err != nil {
			log.Fatal().Err(err).Msg("archivo inválido")
		}
		fmt.Printf("Archivo válido: %d filas\n", len(rows))
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := inventory.NewImportSnapshotUseCase(postgres.NewTxRunner(pool), reader, log)
	res, err := uc.ImportFrom(ctx, f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("importación fallida")
	}
	fmt.Printf("Importado %s: %d bodegas, %d productos, %d saldos base\n", *path, res.Warehouses, res.Products, res.Snapshots)
}
