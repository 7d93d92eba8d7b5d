package handler

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ImageUpload is a saved multipart image: its on-disk URI (for
// persistence) and its base64 data URI (for multimodal LLM calls).
type ImageUpload struct {
	URI     string
	DataURI string
}

// saveImageUpload writes fieldName's file under root/yyyy/mm/, and
// derives the data URI the multimodal adapters require, grounded on the
// source backend's static-file-serving layout.
func saveImageUpload(c interface{ FormFile(string) (*multipart.FileHeader, error) }, root, fieldName string) (*ImageUpload, error) {
	header, err := c.FormFile(fieldName)
	if err != nil {
		return nil, fmt.Errorf("未找到上传文件: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("无法打开上传文件: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}

	mimeType := http.DetectContentType(data)
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}

	now := time.Now()
	relDir := filepath.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()))
	absDir := filepath.Join(root, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	fileName := uuid.NewString() + ext
	absPath := filepath.Join(absDir, fileName)
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("保存上传文件失败: %w", err)
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
	return &ImageUpload{URI: filepath.Join(relDir, fileName), DataURI: dataURI}, nil
}
