// Package handler holds the HTTP side of the bot: the signed evidence
// links embedded in infraction records resolve here.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/pkg/storage"
)

// EvidenceHandler serves stored evidence photos behind signed link tokens.
type EvidenceHandler struct {
	vault  *storage.EvidenceVault
	logger *zap.Logger
}

// NewEvidenceHandler constructs the handler.
func NewEvidenceHandler(vault *storage.EvidenceVault, logger *zap.Logger) *EvidenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvidenceHandler{vault: vault, logger: logger}
}

// Serve resolves the token and streams the photo. Invalid or tampered
// tokens get a 404 rather than a hint about why they failed.
func (h *EvidenceHandler) Serve(c *gin.Context) {
	token := c.Param("token")

	file, err := h.vault.Open(token)
	if err != nil {
		h.logger.Debug("evidence token rejected", zap.Error(err))
		c.String(http.StatusNotFound, "not found")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.logger.Error("evidence stat failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), "image/jpeg", file, nil)
}
