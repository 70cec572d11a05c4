package pybossa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"

	"github.com/pybossa/pbs/pkg/pbs"
)

// CreateHelpingMaterial creates a helping material. When filePath is set the
// file is uploaded as a multipart "file" part next to project_id and info.
func (c *Client) CreateHelpingMaterial(ctx context.Context, projectID int, info any, filePath string) (*pbs.HelpingMaterial, error) {
	var created pbs.HelpingMaterial

	if filePath == "" {
		body := pbs.HelpingMaterial{ProjectID: projectID, Info: info}
		if err := c.doJSON(ctx, "POST", pbs.HelpingMaterialEndpoint, nil, body, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	body, contentType, err := c.multipartBody(projectID, info, filePath)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, "POST", pbs.HelpingMaterialEndpoint, nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if err := c.do(ctx, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) multipartBody(projectID int, info any, filePath string) (io.Reader, string, error) {
	content, err := c.fs.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read helping material file %s: %w", filePath, err)
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode helping material info: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("project_id", strconv.Itoa(projectID)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("info", string(infoJSON)); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) UpdateHelpingMaterial(ctx context.Context, hm *pbs.HelpingMaterial) (*pbs.HelpingMaterial, error) {
	body := *hm
	body.ID = 0

	var updated pbs.HelpingMaterial
	path := pbs.HelpingMaterialEndpoint + "/" + strconv.Itoa(hm.ID)
	if err := c.doJSON(ctx, "PUT", path, nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
