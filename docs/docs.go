// Package docs contiene la especificación OpenAPI de la API (generada con swag a partir de las anotaciones de los handlers).
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

// SwaggerJSON documento OpenAPI embebido; lo sirve la UI de /docs.
//
//go:embed swagger.json
var SwaggerJSON []byte

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stock Ledger API",
	Description:      "Conciliación del libro de stock para el tablero de inventario.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  string(SwaggerJSON),
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
