package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"

	"github.com/meigma/classdata/internal/fsutil"
)

const (
	// ArchiveName is the directory the archive is extracted to, relative to
	// the work directory. The zip is saved next to it.
	ArchiveName = "TypeTreeDumps"

	// Branch is the branch whose archive is downloaded.
	Branch = "main"
)

// Git downloads a branch archive of a hosted repository and extracts it.
//
// Extraction is skipped when the destination directory already exists, so a
// second run reuses the first download.
type Git struct {
	// URL is the repository URL, e.g. https://github.com/AssetRipper/TypeTreeDumps.
	URL string

	// WorkDir is where the archive is stored and extracted. Defaults to the
	// current directory.
	WorkDir string

	// Client overrides the HTTP client. A default resty client is used when nil.
	Client *resty.Client

	Logger *slog.Logger
}

func (g *Git) log() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}

// ArchiveURL returns the URL of the branch archive.
func (g *Git) ArchiveURL() string {
	return strings.TrimSuffix(g.URL, "/") + "/archive/refs/heads/" + Branch + ".zip"
}

// Fetch downloads and extracts the archive if needed and returns the
// repository root inside the extracted tree.
func (g *Git) Fetch(ctx context.Context) (string, error) {
	dest := filepath.Join(g.WorkDir, ArchiveName)
	root := filepath.Join(dest, repoName(g.URL)+"-"+Branch)

	exists, err := fsutil.Exists(dest)
	if err != nil {
		return "", err
	}
	if exists {
		g.log().Info("using existing dump repository", "path", dest)
		return root, nil
	}

	zipPath := dest + ".zip"
	if err := g.download(ctx, zipPath); err != nil {
		return "", err
	}
	if err := Extract(zipPath, dest); err != nil {
		// Leave nothing behind that would make the next run skip extraction.
		_ = os.RemoveAll(dest)
		return "", err
	}
	return root, nil
}

func (g *Git) download(ctx context.Context, path string) error {
	client := g.Client
	if client == nil {
		client = resty.New().
			SetRetryCount(2).
			SetRetryWaitTime(time.Second)
	}
	url := g.ArchiveURL()
	g.log().Info("downloading dump repository", "url", url)

	resp, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDownload, url, err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: %s: %s", ErrDownload, url, resp.Status())
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %s: %v", ErrDownload, url, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	g.log().Info("downloaded dump repository", "path", path, "size", humanize.IBytes(uint64(n))) //nolint:gosec // io.Copy count is non-negative
	return nil
}

// repoName returns the last path element of a repository URL.
func repoName(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
