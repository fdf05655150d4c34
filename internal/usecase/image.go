package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
)

// awaitEncoding ждёт единственный результат кодирования. Отмена контекста или
// истечение timeout прерывают ожидание, результат кодировщика при этом отбрасывается.
func awaitEncoding(ctx context.Context, encoder ImageEncoder, image ProductImage, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case res, ok := <-encoder.EncodeAsync(ctx, image):
		if !ok {
			return "", e.ErrEncodeFailure
		}
		if res.Err != nil {
			return "", fmt.Errorf("%w: %w", e.ErrEncodeFailure, res.Err)
		}
		return res.DataURL, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
