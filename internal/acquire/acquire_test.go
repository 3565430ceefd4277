// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-graph/pkg/types"
)

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func testCfg() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: "test/0.1"}
}

func TestValidate(t *testing.T) {
	pages, err := Validate(minimalPDF())
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	_, err = Validate([]byte("<html><body>Not found</body></html>"))
	assert.True(t, errors.Is(err, ErrNotPDF), "err = %v", err)
}

func TestFetchPDF(t *testing.T) {
	doc := minimalPDF()
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(doc)
	}))
	defer ts.Close()

	d := NewDownloader(testCfg(), "", ts.Client(), zerolog.Nop())
	data, err := d.FetchPDF(context.Background(), ts.URL+"/pdf/1706.03762")
	require.NoError(t, err)
	assert.Equal(t, doc, data)
	assert.Equal(t, "test/0.1", gotUA)
	assert.Equal(t, "application/pdf", gotAccept)
}

func TestFetchPDFRejectsNonPDF(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>captcha</html>")
	}))
	defer ts.Close()

	d := NewDownloader(testCfg(), "", ts.Client(), zerolog.Nop())
	_, err := d.FetchPDF(context.Background(), ts.URL+"/pdf/1706.03762")
	assert.True(t, errors.Is(err, ErrNotPDF), "err = %v", err)
}

func TestFetchPDFHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	d := NewDownloader(testCfg(), "", ts.Client(), zerolog.Nop())
	_, err := d.FetchPDF(context.Background(), ts.URL+"/missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchPDFCache(t *testing.T) {
	doc := minimalPDF()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(doc)
	}))
	defer ts.Close()

	dir := t.TempDir()
	d := NewDownloader(testCfg(), dir, ts.Client(), zerolog.Nop())
	url := ts.URL + "/arxiv.org/pdf/1706.03762v1"

	for range 2 {
		data, err := d.FetchPDF(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, doc, data)
	}
	assert.Equal(t, int32(1), calls.Load())

	_, err := os.Stat(filepath.Join(dir, "1706.03762v1.pdf"))
	assert.NoError(t, err)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"arxiv pdf", "https://arxiv.org/pdf/2301.07041v2", "2301.07041v2"},
		{"arxiv abs", "https://arxiv.org/abs/2301.07041", "2301.07041"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug(tt.url))
		})
	}
	assert.Regexp(t, `^url-[0-9a-f]{16}$`, slug("https://example.com/paper.pdf"))
}
