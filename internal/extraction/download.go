package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vigil-audit/vigil/pkg/retry"
)

// Hosts whose URLs are resolved through yt-dlp rather than fetched directly.
var sharedHosts = []string{"youtube.com", "youtu.be"}

// IsSharedHost reports whether url points at a recognized video-sharing
// host. Unparseable URLs are treated as direct fetches; the download path
// surfaces the real error.
func IsSharedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, shared := range sharedHosts {
		if host == shared || strings.HasSuffix(host, "."+shared) {
			return true
		}
	}
	return false
}

// destPath yields a per-request-unique file path. A fixed name would be
// unsafe under concurrent audits sharing the work directory.
func (s *Service) destPath() string {
	return filepath.Join(s.cfg.WorkDir, fmt.Sprintf("vigil-%s.mp4", uuid.NewString()))
}

func (s *Service) downloadShared(ctx context.Context, url, dest string) error {
	cmd := exec.CommandContext(
		ctx,
		s.cfg.YTDLPPath,
		"-f", "best[ext=mp4]",
		"--no-warnings",
		"--quiet",
		"--force-overwrites",
		"-o", dest,
		url,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return fmt.Errorf("yt-dlp: %s: %w", msg, err)
		}
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

func (s *Service) downloadDirect(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("build request: %w", err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("fetch video: unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return retry.Permanent(err)
		}
		return err
	}

	file, err := os.Create(dest)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create local file: %w", err))
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(dest)
		return fmt.Errorf("write local file: %w", err)
	}
	return file.Close()
}

// Probe returns source metadata without downloading content: the yt-dlp
// JSON dump for shared hosts, response headers for direct URLs. Duration,
// when known, is reported under "duration" in seconds.
func (s *Service) Probe(ctx context.Context, url string) (map[string]any, error) {
	if IsSharedHost(url) {
		return s.probeShared(ctx, url)
	}
	return s.probeDirect(ctx, url)
}

func (s *Service) probeShared(ctx context.Context, url string) (map[string]any, error) {
	cmd := exec.CommandContext(ctx, s.cfg.YTDLPPath, "-J", "--no-warnings", url)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %w", ErrProbe, err)
	}

	var info struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Duration float64 `json:"duration"`
		Uploader string  `json:"uploader"`
		Ext      string  `json:"ext"`
	}
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("%w: parse yt-dlp output: %w", ErrProbe, err)
	}

	metadata := map[string]any{
		"source_id": info.ID,
		"title":     info.Title,
		"duration":  info.Duration,
	}
	if info.Uploader != "" {
		metadata["uploader"] = info.Uploader
	}
	if info.Ext != "" {
		metadata["container"] = info.Ext
	}
	return metadata, nil
}

func (s *Service) probeDirect(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrProbe, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrProbe, resp.Status)
	}

	metadata := map[string]any{}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		metadata["content_type"] = ct
	}
	if resp.ContentLength > 0 {
		metadata["content_length"] = resp.ContentLength
	}
	return metadata, nil
}
