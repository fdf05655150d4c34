// Package encoder превращает загруженные фото в data URL, которые хранятся прямо в товаре.
package encoder

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/DRSN-tech/storefront/internal/infrastructure"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

type Encoder struct {
	maxSize int64
	logger  logger.Logger
}

func NewEncoder(maxSize int64, logger logger.Logger) *Encoder {
	return &Encoder{
		maxSize: maxSize,
		logger:  logger,
	}
}

// EncodeAsync кодирует изображение в отдельной горутине. Буфер канала на один
// элемент позволяет горутине завершиться, даже если результат уже никто не ждёт.
func (enc *Encoder) EncodeAsync(ctx context.Context, image usecase.ProductImage) <-chan usecase.EncodeResult {
	out := make(chan usecase.EncodeResult, 1)

	go func() {
		defer close(out)

		dataURL, err := enc.Encode(ctx, image)
		out <- usecase.EncodeResult{DataURL: dataURL, Err: err}
	}()

	return out
}

// Encode возвращает "data:<mime>;base64,<payload>". MIME-тип определяется по содержимому,
// заявленный тип используется, только если по байтам тип не распознан.
func (enc *Encoder) Encode(ctx context.Context, image usecase.ProductImage) (string, error) {
	const op = "Encoder.Encode"

	if len(image.Data) == 0 {
		return "", e.Wrap(op, e.ErrNoImages)
	}

	if enc.maxSize > 0 && int64(len(image.Data)) > enc.maxSize {
		return "", e.Wrap(op, e.ErrFileTooLarge)
	}

	mime := detectMIME(image)
	if _, err := infrastructure.GetExtensionFromMIME(mime); err != nil {
		enc.logger.Debugf("%s: rejected %s with type %s", op, image.Name, mime)
		return "", e.Wrap(op, err)
	}

	if err := ctx.Err(); err != nil {
		return "", e.Wrap(op, err)
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(image.Data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(image.Data))

	return b.String(), nil
}

func detectMIME(image usecase.ProductImage) string {
	sniffed := http.DetectContentType(image.Data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}

	declared, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(image.MimeType)), ";")
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if declared != "" {
		return declared
	}

	return sniffed
}
