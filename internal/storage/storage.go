// Cliente del servicio de imágenes alojado. El proveedor es opaco: se sube un
// fichero y devuelve un identificador público y una URL; se borra por id.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxUploadSize = 5 << 20 // 5MB

// Tipos admitidos en subidas: imágenes y PDF.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

var (
	ErrFileTooLarge    = errors.New("el archivo supera el límite de 5MB")
	ErrUnsupportedType = errors.New("tipo de archivo no admitido")
)

type UploadResult struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ValidateFile comprueba tamaño y tipo antes de reenviar nada al proveedor.
func ValidateFile(size int64, contentType string) error {
	if size > MaxUploadSize {
		return ErrFileTooLarge
	}
	if !allowedTypes[contentType] {
		return ErrUnsupportedType
	}
	return nil
}

func (c *Client) Upload(filename, contentType string, data io.Reader) (*UploadResult, error) {
	// Sin proveedor configurado no hay subida real; se devuelve una referencia
	// local para poder trabajar en desarrollo.
	if c.baseURL == "" {
		id := uuid.NewString()
		zap.L().Info("Storage en modo dev, subida simulada",
			zap.String("filename", filename),
			zap.String("public_id", id))
		return &UploadResult{PublicID: id, URL: "/uploads/" + id}, nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("storage upload failed: status %d", resp.StatusCode)
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(publicID string) error {
	if c.baseURL == "" {
		return nil
	}

	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/files/"+publicID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("storage delete failed: status %d", resp.StatusCode)
	}
	return nil
}
