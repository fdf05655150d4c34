package usecase

import "context"

// ImageEncoder кодирует изображение в data URL. Канал отдаёт ровно один результат и закрывается.
type ImageEncoder interface {
	EncodeAsync(ctx context.Context, image ProductImage) <-chan EncodeResult
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteMessage(ctx context.Context, req *WriteMessageReq) error
}
