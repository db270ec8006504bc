package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	// ErrStore agrupa fallos del almacén de datos; el reporte se aborta completo.
	ErrStore = errors.New("error del almacén de datos")
)
