package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
	"github.com/gymbuddy/gymbuddy-backend/internal/storage"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
	Size        int64  `json:"size"`
}

// Content types accepted per upload folder. Business documents and
// certifications additionally accept PDFs.
var allowedContentTypes = map[string][]string{
	storage.FolderProfileImages: {
		"image/jpeg", "image/jpg", "image/png", "image/webp",
	},
	storage.FolderBusinessDocuments: {
		"image/jpeg", "image/jpg", "image/png", "image/webp", "application/pdf",
	},
	storage.FolderCertifications: {
		"image/jpeg", "image/jpg", "image/png", "image/webp", "application/pdf",
	},
}

// GeneratePresignedURL generates a presigned URL for uploading files to S3
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Some of the information you entered is invalid")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = storage.FolderProfileImages
	}

	allowed, ok := allowedContentTypes[folder]
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown upload folder")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowed); err != nil {
		log.Warn("Rejected upload content type", map[string]interface{}{
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "This file type is not allowed for this upload")
		return
	}

	if req.Size > 0 {
		if err := ctrl.storage.ValidateFileSize(req.Size, maxUploadSize); err != nil {
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "File exceeds the 10MB upload limit")
			return
		}
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		apperrors.InternalError(c, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"folder": folder,
		"key":    response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
