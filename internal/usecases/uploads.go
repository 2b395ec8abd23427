package usecases

import (
	"bufio"
	"io"
	"net/http"
	"strconv"
	"strings"

	domainerrors "github.com/TRAPZZY/AGRO--007-sub000/internal/domain/errors"
)

// Upload is a file received from a client
type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

var (
	documentTypes = map[string]string{
		"application/pdf": ".pdf",
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
	}
	imageTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	}
)

// sniff detects the upload's content type from its first bytes and checks it
// against allowed. The returned reader yields the complete body.
func sniff(up Upload, allowed map[string]string, maxBytes int64) (contentType, ext string, body io.Reader, err error) {
	if up.Size <= 0 {
		return "", "", nil, unsupported("The file is empty")
	}
	if maxBytes > 0 && up.Size > maxBytes {
		return "", "", nil, unsupported("The file must be " + humanSize(maxBytes) + " or smaller")
	}

	br := bufio.NewReaderSize(up.Body, 512)
	head, _ := br.Peek(512)
	contentType = http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowed[contentType]
	if !ok {
		return "", "", nil, unsupported("Unsupported file type " + contentType)
	}

	var r io.Reader = br
	if maxBytes > 0 {
		r = io.LimitReader(br, maxBytes)
	}
	return contentType, ext, r, nil
}

func unsupported(message string) *domainerrors.AppError {
	e := domainerrors.NewAppError(http.StatusUnprocessableEntity, domainerrors.CodeUnprocessableEntity, message, domainerrors.ErrUnsupportedFile)
	e.Fields = map[string]string{"file": message}
	return e
}

func humanSize(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return strconv.FormatInt(n/mib, 10) + " MB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
