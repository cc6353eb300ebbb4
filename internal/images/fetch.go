// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/boxmd/internal/httputil"
)

// maxDownloadBytes caps a single image download at 50 MiB.
const maxDownloadBytes = 50 << 20

// fetch downloads an external image URL and returns its bytes plus a file
// extension derived from the response Content-Type.
func (r *DirResolver) fetch(url string) ([]byte, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := httputil.DoWithRetry(context.Background(), r.Client, req, 0)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("image exceeds %d byte limit", maxDownloadBytes)
	}

	mime, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	return data, extensionFor(strings.TrimSpace(mime)), nil
}
