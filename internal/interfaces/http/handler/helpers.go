package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	appmedia "github.com/store/backend/internal/application/media"
	"github.com/store/backend/internal/interfaces/http/dto"
)

// payloadField is the multipart form field carrying the JSON body of
// image-bearing endpoints; filesField carries the uploaded images.
const (
	payloadField = "payload"
	filesField   = "files"
)

// pathID parses the numeric :id path parameter
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// listRequest binds pagination query parameters with defaults applied
func listRequest(c *gin.Context) (dto.ListRequest, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	return req, nil
}

// bindMultipartPayload decodes the JSON payload part of a multipart
// request into dst and collects the uploaded files. Endpoints that
// submit images alongside structured data use this convention.
func bindMultipartPayload(c *gin.Context, dst any) ([]appmedia.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	payload := c.PostForm(payloadField)
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return nil, err
	}

	return readUploadFiles(form.File[filesField])
}

func readUploadFiles(headers []*multipart.FileHeader) ([]appmedia.UploadFile, error) {
	files := make([]appmedia.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		files = append(files, appmedia.UploadFile{
			Name: header.Filename,
			Data: data,
		})
	}
	return files, nil
}
