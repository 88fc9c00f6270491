package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
)

// Download handles GET /download/{token}.
//
// HEAD is rejected before the store is touched, so link previews and
// crawlers probing a URL do not burn it.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.MethodNotAllowed(w, r)
		return
	}

	d, err := h.downloads.Open(r.Context(), r.PathValue("token"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	defer d.Close()

	setRequestID(w, r)
	hdr := w.Header()
	hdr.Set("Content-Type", contentType(d.Name))
	hdr.Set("Content-Disposition", contentDisposition(d.Name))
	hdr.Set("Content-Length", strconv.FormatInt(d.Size, 10))
	hdr.Set("Cache-Control", "no-store")
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Last-Modified", d.ModTime.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, d.File)
	h.downloads.RecordServed(n, err)
	if err != nil {
		// Headers are gone; the client sees a truncated body.
		h.logger.WarnContext(r.Context(), "download aborted",
			"name", d.Name,
			"sent", n,
			"size", d.Size,
			"error", err)
	}
}

// contentType guesses the media type from the file extension.
func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// contentDisposition builds an attachment header. Names outside printable
// ASCII get an ASCII fallback in filename and the exact name in an
// RFC 5987 filename* parameter.
func contentDisposition(name string) string {
	fallback, exact := asciiFileName(name)
	v := `attachment; filename="` + fallback + `"`
	if !exact {
		v += "; filename*=UTF-8''" + encodeRFC5987(name)
	}
	return v
}

func asciiFileName(name string) (string, bool) {
	var b strings.Builder
	exact := true
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
			exact = false
		case r < 0x20 || r >= 0x7f:
			b.WriteByte('_')
			exact = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), exact
}

// encodeRFC5987 percent-encodes everything outside attr-char.
func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
