// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageBytes bounds attachments read from disk.
const MaxImageBytes = 20 * 1024 * 1024

// ParseDataURL splits a data URL into MIME type and base64 payload. The
// payload is everything after the first comma; the MIME type lies between
// the first ':' and the first ';'.
func ParseDataURL(image string) (mimeType, payload string, err error) {
	comma := strings.IndexByte(image, ',')
	colon := strings.IndexByte(image, ':')
	semi := strings.IndexByte(image, ';')
	if comma < 0 || colon < 0 || semi < 0 || colon > semi || semi > comma {
		return "", "", fmt.Errorf("%w: missing header", ErrInvalidImage)
	}
	mimeType = image[colon+1 : semi]
	payload = image[comma+1:]
	if mimeType == "" || payload == "" {
		return "", "", fmt.Errorf("%w: empty mime type or payload", ErrInvalidImage)
	}
	return mimeType, payload, nil
}

// EncodeDataURL builds a base64 data URL.
func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DataURLFromFile reads an image file and returns it as a data URL. The
// MIME type comes from the extension, falling back to content sniffing.
func DataURLFromFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxImageBytes {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", ErrInvalidImage, filepath.Base(path), MaxImageBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s is %s, not an image", ErrInvalidImage, filepath.Base(path), mimeType)
	}
	return EncodeDataURL(mimeType, data), nil
}
