package webserver

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/model"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/Lucid-Synth/fileflow/internal/validator"
	"github.com/Lucid-Synth/fileflow/internal/webserver/serializer"
	"github.com/Lucid-Synth/fileflow/internal/webserver/service"
	"github.com/Lucid-Synth/fileflow/internal/webserver/weberror"
	"github.com/Lucid-Synth/fileflow/internal/xkey"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
)

type share struct {
	logger    logger.Logger
	db        database.Client
	storage   storage.Backend
	validator validator.Validator
	publicurl string
}

func (h *share) urls(s *model.Share) (string, string) {
	return h.publicurl + "/s/" + s.Token, h.storage.URL(s.StorageKey)
}

func (h *share) Upload(c echo.Context) error {
	c.Set("handler_method", "share.Upload")

	file, err := c.FormFile("file")
	if err != nil {
		return weberror.New(http.StatusBadRequest, "no file provided")
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	result := h.validator.Check([]validator.File{{
		Filename:    file.Filename,
		Size:        file.Size,
		ContentType: contentType,
	}})
	if !result.OK {
		return weberror.New(validationStatus(result), strings.Join(result.Errors, "; "))
	}

	//

	f, err := file.Open()
	if err != nil {
		return weberror.New(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	uploader := service.NewUploader(h.logger, h.db, h.storage)
	s, err := uploader.Upload(file.Filename, contentType, f)
	if err != nil {
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, serializer.Upload(s, h.urls))
}

func (h *share) UploadBatch(c echo.Context) error {
	c.Set("handler_method", "share.UploadBatch")

	form, err := c.MultipartForm()
	if err != nil {
		return weberror.New(http.StatusBadRequest, "no file provided")
	}
	files := form.File["files"]

	candidates := make([]validator.File, 0, len(files))
	for _, file := range files {
		candidates = append(candidates, validator.File{
			Filename:    file.Filename,
			Size:        file.Size,
			ContentType: file.Header.Get("Content-Type"),
		})
	}

	// The whole request is rejected before any storage I/O; per-file
	// failures past this point never abort the batch.
	result := h.validator.Check(candidates)
	if !result.OK {
		return weberror.New(validationStatus(result), strings.Join(result.Errors, "; "))
	}

	//

	batch := service.NewBatch(service.NewUploader(h.logger, h.db, h.storage))

	return c.JSON(http.StatusOK, serializer.Batch(batch.Upload(files), h.urls))
}

func (h *share) Show(c echo.Context) error {
	c.Set("handler_method", "share.Show")

	s, err := h.load(c.Param("share_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Share(s, h.urls))
}

func (h *share) Redirect(c echo.Context) error {
	c.Set("handler_method", "share.Redirect")

	s, err := h.load(c.Param("share_id"))
	if err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, h.storage.URL(s.StorageKey))
}

func (h *share) Download(c echo.Context) error {
	c.Set("handler_method", "share.Download")

	key := path.Join(xkey.Prefix, c.Param("object"))
	s, err := h.db.FindShareByStorageKey(key)
	if err != nil {
		if h.db.IsNotFound(err) {
			return weberror.NotFound()
		}
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	downloader := service.NewDownloader(h.storage, s)
	r, err := downloader.Stream()
	if err != nil {
		return weberror.New(http.StatusUnprocessableEntity, "stored file is not readable")
	}
	defer r.Close()

	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(downloader.Size(), 10))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+s.Filename+`"`)
	c.Response().Header().Set("Etag", downloader.Checksum())
	return c.Stream(http.StatusOK, downloader.ContentType(), r)
}

func (h *share) Delete(c echo.Context) error {
	c.Set("handler_method", "share.Delete")

	s, err := h.load(c.Param("share_id"))
	if err != nil {
		return err
	}

	destroyer := service.NewDestroyer(h.db, h.storage, s)
	if err := destroyer.Destroy(); err != nil {
		// The record is the authority: a concurrent delete already won.
		if h.db.IsNotFound(err) {
			return weberror.NotFound()
		}
		return weberror.New(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ok":       true,
		"message":  "file deleted successfully",
		"share_id": s.Token,
	})
}

func (h *share) Health(c echo.Context) error {
	c.Set("handler_method", "share.Health")

	status := "healthy"
	reachability := "reachable"
	if err := h.storage.Ping(); err != nil {
		h.logger.Errorf("health: %s", err)
		status = "degraded"
		reachability = "unreachable"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  status,
		"backend": h.storage.Name(),
		"storage": reachability,
	})
}

func (h *share) load(token string) (*model.Share, error) {
	s, err := h.db.FindShareByToken(token)
	if err != nil {
		if h.db.IsNotFound(err) {
			return nil, weberror.NotFound()
		}
		return nil, weberror.New(http.StatusInternalServerError, err.Error())
	}
	return s, nil
}

func validationStatus(result validator.Result) int {
	if result.TooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
