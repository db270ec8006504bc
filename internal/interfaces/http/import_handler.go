package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

// ImportHandler recibe el export de inventario base del ERP (solo admin).
type ImportHandler struct {
	uc *inventory.ImportSnapshotUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *inventory.ImportSnapshotUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Snapshot godoc
// @Summary      Importar inventario base
// @Description  CSV del ERP separado por ';'. Reemplaza las cantidades base de los pares (producto, bodega) del archivo.
// @Tags         import
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Archivo CSV"
// @Param        encoding  query     string  false  "latin1, windows-1252 o utf-8"  default(latin1)
// @Success      200       {object}  inventory.ImportResult
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Failure      500       {object}  dto.ErrorResponse
// @Router       /api/import/snapshot [post]
func (h *ImportHandler) Snapshot(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "falta el archivo (campo file)"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.uc.ImportFrom(c.UserContext(), f, c.Query("encoding", "latin1"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
