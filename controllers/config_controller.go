package controllers

import (
	"io"
	"net/http"
	"strings"

	"chatbot-backend/config"
	"chatbot-backend/models"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
)

// GetPublicConfigHandler returns the widget-facing subset of the
// configuration singleton, initializing defaults on first read.
func GetPublicConfigHandler(c *gin.Context) {
	cfg, err := BotConfig.Load(c.Request.Context())
	if err != nil {
		config.Log.Error("Error fetching bot configuration: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bot configuration"})
		return
	}
	c.JSON(http.StatusOK, cfg.Public())
}

// GetBotConfigHandler returns the full singleton for the admin editor.
func GetBotConfigHandler(c *gin.Context) {
	cfg, err := BotConfig.Load(c.Request.Context())
	if err != nil {
		config.Log.Error("Error fetching bot configuration: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bot configuration"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateBotConfigHandler replaces the singleton with the submitted
// document. FAQ pairs are persisted verbatim, empty strings included.
func UpdateBotConfigHandler(c *gin.Context) {
	var cfg models.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid configuration"})
		return
	}

	if cfg.FAQs == nil {
		cfg.FAQs = []models.FAQ{}
	}

	if err := BotConfig.Save(c.Request.Context(), &cfg); err != nil {
		config.Log.Error("Error saving bot configuration: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save bot configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Configuration saved"})
}

// assetFields maps the upload kind to the singleton field it fills.
var assetFields = map[string]string{
	"logo":          "logo_url",
	"profile-photo": "profile_photo_url",
}

const maxAssetSize = 5 << 20 // 5 MB

// UploadAssetHandler stores a branding image on S3 and records its URL on
// the configuration singleton.
func UploadAssetHandler(c *gin.Context) {
	kind := c.Param("kind")
	field, ok := assetFields[kind]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown asset kind"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	if file.Size > maxAssetSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is too large"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image uploads are allowed"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	url, err := services.UploadBrandingAsset(c.Request.Context(), kind, file.Filename, contentType, data)
	if err != nil {
		config.Log.Error("Error uploading branding asset: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload asset"})
		return
	}

	if err := BotConfig.SetAssetURL(c.Request.Context(), field, url); err != nil {
		config.Log.Error("Error recording asset URL: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save asset URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
