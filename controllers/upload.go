package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mapmyissues/gcs"
	"mapmyissues/utils"
)

const MaxPhotoSize = 5 << 20

type PhotoUploader interface {
	Upload(ctx context.Context, reader io.Reader, contentType string) (string, error)
}

type UploadController struct {
	uploader PhotoUploader
}

func NewUploadController(uploader PhotoUploader) *UploadController {
	return &UploadController{uploader: uploader}
}

// Photo accepts a multipart "photo" field and returns its public URL, to be
// sent back as photo_url when the issue is submitted.
func (uc *UploadController) Photo(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "No photo uploaded")
		return
	}
	if file.Size > MaxPhotoSize {
		utils.Fail(c, http.StatusBadRequest, "Photo must not exceed 5MB")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if _, err = gcs.Extension(contentType); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Photo must be a JPEG, PNG or GIF image")
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	url, err := uc.uploader.Upload(c.Request.Context(), f, contentType)
	if err != nil {
		if errors.Is(err, gcs.ErrUnsupportedType) {
			utils.Fail(c, http.StatusBadRequest, "Photo must be a JPEG, PNG or GIF image")
			return
		}
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, gin.H{"photo_url": url})
}
