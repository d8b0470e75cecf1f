package httpapi

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// minCompressSize is the smallest body that gets encoded.
const minCompressSize = 256

// zstdEncoder is only used through EncodeAll, which is safe for concurrent use.
var zstdEncoder = newZstdEncoder()

func newZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(err)
	}
	return enc
}

// negotiate picks zstd, then gzip, from an Accept-Encoding header.
func negotiate(accept string) string {
	switch {
	case strings.Contains(accept, "zstd"):
		return "zstd"
	case strings.Contains(accept, "gzip"):
		return "gzip"
	}
	return ""
}

func encode(encoding string, body []byte) ([]byte, error) {
	if encoding == "zstd" {
		return zstdEncoder.EncodeAll(body, make([]byte, 0, len(body)/2)), nil
	}
	var out bytes.Buffer
	gw, err := gzip.NewWriterLevel(&out, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := gw.Write(body); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func bodyAllowed(code int) bool {
	return code >= 200 && code != http.StatusNoContent && code != http.StatusNotModified
}

// bufferedResponse holds a whole response so it can be encoded in one go.
type bufferedResponse struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferedResponse) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) flush(encoding string) {
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	h := b.Header()
	h.Add("Vary", "Accept-Encoding")

	body := b.body.Bytes()
	if !bodyAllowed(status) {
		b.ResponseWriter.WriteHeader(status)
		return
	}
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", http.DetectContentType(body))
	}
	if len(body) >= minCompressSize && h.Get("Content-Encoding") == "" {
		if out, err := encode(encoding, body); err == nil {
			h.Set("Content-Encoding", encoding)
			body = out
		}
	}
	h.Set("Content-Length", strconv.Itoa(len(body)))
	b.ResponseWriter.WriteHeader(status)
	_, _ = b.ResponseWriter.Write(body)
}

// Compression encodes responses with zstd, or gzip as a fallback, when the
// client accepts it. Each body is buffered and encoded whole; bodies under
// minCompressSize go out plain.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoding := negotiate(r.Header.Get("Accept-Encoding"))
		if encoding == "" || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		buf := &bufferedResponse{ResponseWriter: w}
		next.ServeHTTP(buf, r)
		buf.flush(encoding)
	})
}
