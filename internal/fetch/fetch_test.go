package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tzbundle/internal/tzdata"
)

// fakeTransport serves canned responses keyed by URL, recording the
// requests it sees.
type fakeTransport struct {
	responses map[string]*http.Response
	requests  []*http.Request
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	resp, ok := f.responses[req.URL.String()]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Body:       io.NopCloser(strings.NewReader("not found")),
			Header:     http.Header{},
		}, nil
	}
	return resp, nil
}

func response(status int, etag string, body []byte) *http.Response {
	header := http.Header{}
	if etag != "" {
		header.Set("Etag", etag)
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     header,
	}
}

// makeArchive builds a gzip-compressed tar archive from the given files,
// nested under a release directory like the real distribution.
func makeArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	for name, content := range files {
		err := tw.WriteHeader(&tar.Header{
			Name:     "tzdata2025a/" + name,
			Mode:     0644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const (
	testArchiveURL = "https://example.com/tzdata-latest.tar.gz"
	testXMLURL     = "https://example.com/windowsZones.xml"
)

func newTestClient(transport *fakeTransport) *Client {
	return &Client{
		HTTPClient:      &http.Client{Transport: transport},
		ArchiveURL:      testArchiveURL,
		WindowsZonesURL: testXMLURL,
	}
}

func TestFetchInto(t *testing.T) {
	archive := makeArchive(t, map[string]string{
		"asia":         "Zone Asia/Seoul 8:27:52 - LMT 1908 Apr 1\n",
		"version":      "2025a\n",
		"zone1970.tab": "KR\t+3733+12658\tAsia/Seoul\n",
		// Files the parser never reads are dropped during extraction.
		"Makefile": "all:\n",
	})
	transport := &fakeTransport{responses: map[string]*http.Response{
		testArchiveURL: response(http.StatusOK, `"etag-1"`, archive),
		testXMLURL:     response(http.StatusOK, "", []byte("<supplementalData/>")),
	}}

	dir := t.TempDir()
	c := newTestClient(transport)
	if err := c.FetchInto(context.Background(), dir, tzdata.NewNopLogger()); err != nil {
		t.Fatalf("FetchInto() error = %v", err)
	}

	for _, name := range []string{"asia", tzdata.VersionFile, tzdata.MetadataFile, tzdata.WindowsZonesFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Makefile")); err == nil {
		t.Error("Makefile should not have been extracted")
	}

	data, err := os.ReadFile(filepath.Join(dir, etagFile))
	if err != nil {
		t.Fatalf("etag not persisted: %v", err)
	}
	if got := string(data); got != `"etag-1"` {
		t.Errorf("stored etag = %q, want %q", got, `"etag-1"`)
	}
}

func TestFetchInto_NotModified(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, etagFile), []byte(`"etag-1"`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asia"), []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	transport := &fakeTransport{responses: map[string]*http.Response{
		testArchiveURL: response(http.StatusNotModified, "", nil),
		testXMLURL:     response(http.StatusOK, "", []byte("<supplementalData/>")),
	}}

	c := newTestClient(transport)
	if err := c.FetchInto(context.Background(), dir, tzdata.NewNopLogger()); err != nil {
		t.Fatalf("FetchInto() error = %v", err)
	}

	if got := transport.requests[0].Header.Get("If-None-Match"); got != `"etag-1"` {
		t.Errorf("If-None-Match = %q, want %q", got, `"etag-1"`)
	}

	data, err := os.ReadFile(filepath.Join(dir, "asia"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "existing\n" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestFetchInto_WindowsZonesFailureNotFatal(t *testing.T) {
	archive := makeArchive(t, map[string]string{
		"asia":    "Zone Asia/Seoul 8:27:52 - LMT 1908 Apr 1\n",
		"version": "2025a\n",
	})
	transport := &fakeTransport{responses: map[string]*http.Response{
		testArchiveURL: response(http.StatusOK, "", archive),
		// No entry for the XML URL; the fake returns 404.
	}}

	dir := t.TempDir()
	c := newTestClient(transport)
	if err := c.FetchInto(context.Background(), dir, tzdata.NewNopLogger()); err != nil {
		t.Fatalf("FetchInto() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "asia")); err != nil {
		t.Errorf("region file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, tzdata.WindowsZonesFile)); err == nil {
		t.Error("windowsZones.xml should not exist after a failed fetch")
	}
}

func TestFetchArchive(t *testing.T) {
	t.Run("unexpected status is an error", func(t *testing.T) {
		transport := &fakeTransport{responses: map[string]*http.Response{
			testArchiveURL: response(http.StatusInternalServerError, "", []byte("boom")),
		}}

		c := newTestClient(transport)
		if _, _, err := c.FetchArchive(context.Background(), ""); err == nil {
			t.Fatal("FetchArchive() expected error for 500 response")
		}
	})

	t.Run("archive without tzdata files is an error", func(t *testing.T) {
		archive := makeArchive(t, map[string]string{"README": "nothing useful\n"})
		transport := &fakeTransport{responses: map[string]*http.Response{
			testArchiveURL: response(http.StatusOK, "", archive),
		}}

		c := newTestClient(transport)
		if _, _, err := c.FetchArchive(context.Background(), ""); err == nil {
			t.Fatal("FetchArchive() expected error for empty archive")
		}
	})

	t.Run("corrupt gzip is an error", func(t *testing.T) {
		transport := &fakeTransport{responses: map[string]*http.Response{
			testArchiveURL: response(http.StatusOK, "", []byte("not a gzip stream")),
		}}

		c := newTestClient(transport)
		if _, _, err := c.FetchArchive(context.Background(), ""); err == nil {
			t.Fatal("FetchArchive() expected error for corrupt archive")
		}
	})
}
