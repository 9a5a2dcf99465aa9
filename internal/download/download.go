package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultUserAgent = "burgerstack/1.0"

// DefaultClient is used when a nil client is passed. Asset fetches are small; a minute is generous.
var DefaultClient = &http.Client{Timeout: 60 * time.Second}

// maxAssetSize caps a single fetch so a misconfigured URL cannot fill memory.
const maxAssetSize = 64 << 20

// Fetch GETs url and returns the body. Non-200 responses are errors.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: %s: HTTP %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("download: %s larger than %d bytes", url, maxAssetSize)
	}
	return data, nil
}

// Save fetches url and writes it under destDir, returning the saved path. The file name comes
// from the URL path; an existing file with that name is reused without fetching.
func Save(ctx context.Context, client *http.Client, url, destDir string) (savedPath string, err error) {
	savedPath = filepath.Join(destDir, FileName(url))
	if _, err := os.Stat(savedPath); err == nil {
		return savedPath, nil
	}
	data, err := Fetch(ctx, client, url)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	tmp := savedPath + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp, savedPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// FileName derives a safe local file name from the last URL path element, dropping any query.
func FileName(url string) string {
	p := url
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	name := path.Base(p)
	if strings.HasSuffix(p, "/") || name == "." || name == "/" || name == "" {
		name = "download"
	}
	name = safeNameRe.ReplaceAllString(name, "_")
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}
