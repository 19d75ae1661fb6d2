// Package fetch downloads and extracts the inputs the parser consumes: the
// IANA tzdata release archive and the CLDR windowsZones.xml mapping.
//
// Releases are fetched with ETag-based caching so repeated runs avoid
// re-downloading an unchanged database. The ETag is persisted next to the
// extracted files.
package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tzbundle/internal/tzdata"
)

// etagFile stores the ETag of the last downloaded archive inside the
// input directory.
const etagFile = ".etag"

// Client downloads tzdata inputs. The zero value is not usable; construct
// it with the source URLs from configuration.
type Client struct {
	// HTTPClient is used for all requests. If nil, http.DefaultClient is
	// used. Tests inject a client with a fake http.RoundTripper.
	HTTPClient *http.Client

	ArchiveURL      string
	WindowsZonesURL string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

// FetchInto downloads the tzdata archive and windowsZones.xml and writes
// the extracted input files into dir, creating it if needed. When the
// server reports the archive unchanged since the stored ETag, extraction
// is skipped and the existing files are kept.
func (c *Client) FetchInto(ctx context.Context, dir string, logger tzdata.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating input directory: %w", err)
	}

	etag := readEtag(dir)
	files, newEtag, err := c.FetchArchive(ctx, etag)
	if err != nil {
		return fmt.Errorf("fetching tzdata archive: %w", err)
	}
	if files == nil {
		logger.Info("tzdata archive unchanged, skipping extraction", "etag", etag)
	} else {
		for name, data := range files {
			if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
		}
		writeEtag(dir, newEtag, logger)
		logger.Info("extracted tzdata files", "count", len(files), "dir", dir)
	}

	xmlData, err := c.FetchWindowsZones(ctx)
	if err != nil {
		// The Windows mapping is auxiliary; the parser tolerates its
		// absence, so a failed fetch is reported but not fatal.
		logger.Error("fetching windows zones mapping", "error", err)
		return nil
	}
	if err := os.WriteFile(filepath.Join(dir, tzdata.WindowsZonesFile), xmlData, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tzdata.WindowsZonesFile, err)
	}
	return nil
}

// FetchArchive downloads the release archive and returns the extracted
// input files keyed by name. If the server responds 304 Not Modified for
// the given etag, the returned map is nil and the etag is echoed back.
func (c *Client) FetchArchive(ctx context.Context, etag string) (map[string][]byte, string, error) {
	body, newEtag, err := c.download(ctx, c.ArchiveURL, etag)
	if err != nil {
		return nil, "", err
	}
	if body == nil {
		return nil, etag, nil // not modified
	}
	defer func() {
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()

	files, err := extractArchive(body)
	if err != nil {
		return nil, "", err
	}
	return files, newEtag, nil
}

// FetchWindowsZones downloads the CLDR windowsZones.xml document.
func (c *Client) FetchWindowsZones(ctx context.Context) ([]byte, error) {
	body, _, err := c.download(ctx, c.WindowsZonesURL, "")
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// download performs a GET with optional If-None-Match. A 304 response
// yields a nil body and the input etag; any status other than 200 or 304
// is an error.
func (c *Client) download(ctx context.Context, url, etag string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request for %q: %w", url, err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusNotModified {
			return nil, etag, nil
		}
		return nil, "", fmt.Errorf("GET %q: unexpected status: %s", url, resp.Status)
	}

	return resp.Body, resp.Header.Get("Etag"), nil
}

// extractArchive unpacks a gzip-compressed tar archive and keeps only the
// files the parser reads: the region files, zone1970.tab and version.
func extractArchive(r io.Reader) (map[string][]byte, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	wanted := make(map[string]bool, len(tzdata.RegionFiles)+2)
	for _, name := range tzdata.RegionFiles {
		wanted[name] = true
	}
	wanted[tzdata.MetadataFile] = true
	wanted[tzdata.VersionFile] = true

	files := make(map[string][]byte)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		name := filepath.Base(strings.TrimSuffix(header.Name, "/"))
		if !wanted[name] || header.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", header.Name, err)
		}
		files[name] = data
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no tzdata files found in archive")
	}
	return files, nil
}

func readEtag(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, etagFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func writeEtag(dir, etag string, logger tzdata.Logger) {
	if etag == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, etagFile), []byte(etag), 0644); err != nil {
		logger.Warn("persisting archive etag", "error", err)
	}
}
