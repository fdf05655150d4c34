package usecase

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/repository/memory"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/pubsub"
	"github.com/shopspring/decimal"
)

const adminEmail = "test1278@gmail.com"

// fakeEncoder возвращает data URL без проверки содержимого; hang оставляет канал пустым.
type fakeEncoder struct {
	err  error
	hang bool
}

func (f *fakeEncoder) EncodeAsync(_ context.Context, image ProductImage) <-chan EncodeResult {
	out := make(chan EncodeResult, 1)
	if f.hang {
		return out
	}

	if f.err != nil {
		out <- EncodeResult{Err: f.err}
	} else {
		out <- EncodeResult{DataURL: "data:" + image.MimeType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)}
	}
	close(out)
	return out
}

type fakeImagesInfra struct {
	uploaded chan *UploadImagesReq
}

func (f *fakeImagesInfra) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	f.uploaded <- req
	return NewUploadImagesRes([]string{req.Name + "/photo.png"}), nil
}

func (f *fakeImagesInfra) CleanupImages([]string) {}

type testEnv struct {
	store      *state.Store
	storage    *memory.StorageRepo
	keys       *pubsub.Bus[string]
	navigation *pubsub.Bus[domain.NavigationRequest]
	encoder    *fakeEncoder
	images     *fakeImagesInfra
	cfg        *cfg.StorefrontCfg

	session    *SessionUseCase
	storefront *StorefrontUseCase
	search     *SearchUseCase
}

func newTestEnv(t *testing.T, seed ...domain.Product) *testEnv {
	t.Helper()

	catalog, err := state.NewCatalog(seed...)
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	env := &testEnv{
		store:      state.NewStore(state.State{Catalog: catalog}, nil),
		storage:    memory.NewStorageRepo(),
		keys:       pubsub.NewBus[string](),
		navigation: pubsub.NewBus[domain.NavigationRequest](),
		encoder:    &fakeEncoder{},
		images:     &fakeImagesInfra{uploaded: make(chan *UploadImagesReq, 4)},
		cfg: &cfg.StorefrontCfg{
			AdminEmail:        adminEmail,
			LoginPath:         "/login",
			RecentSearchLimit: 5,
			EncodeTimeout:     time.Second,
			MaxPhotoSize:      1024,
		},
	}

	log := logger.Nop{}
	env.session = NewSessionUC(env.storage, env.encoder, env.keys, env.navigation, env.cfg, log)

	var ids int64 = 1000
	gen := domain.NewIDGenerator(func() time.Time {
		ids++
		return time.UnixMilli(ids)
	})
	env.storefront = NewStorefrontUC(env.store, env.session, env.encoder, env.images, gen, env.cfg, log)
	env.search = NewSearchUC(env.store, env.storage, env.keys, env.cfg.RecentSearchLimit, log)

	return env
}

func (env *testEnv) signIn(t *testing.T, email string) {
	t.Helper()

	if _, err := env.session.SignIn(context.Background(), "token-123", email); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func product(id int64, name, price string) domain.Product {
	return domain.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		ImgSrc: "data:image/png;base64,AA==",
	}
}

func photo() *ProductImage {
	return NewProductImage([]byte{0x89, 'P', 'N', 'G'}, "image/png", 4, "photo.png")
}
