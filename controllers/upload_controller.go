package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/utils"
)

type ReceiptController struct {
	dir string
}

// NewReceiptController serves receipts written by the local receipt store
func NewReceiptController(dir string) *ReceiptController {
	return &ReceiptController{dir: dir}
}

// GetReceipt handles GET /api/v1/receipts/:filename
func (ctl *ReceiptController) GetReceipt(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(utils.AllowedReceiptFormats, ext) {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Unsupported receipt type")
		return
	}

	filePath := filepath.Join(ctl.dir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Receipt not found")
		return
	}

	c.Header("Content-Type", utils.ContentType(filename))
	c.Header("Cache-Control", "private, max-age=3600")
	c.File(filePath)
}
