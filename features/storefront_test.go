package features

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/infrastructure/encoder"
	"github.com/DRSN-tech/storefront/internal/repository/memory"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/pubsub"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

var pngPhoto = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

type storefrontTestContext struct {
	ctx        context.Context
	cfg        *cfg.StorefrontCfg
	session    *usecase.SessionUseCase
	storefront *usecase.StorefrontUseCase
	search     *usecase.SearchUseCase
	redirects  []string
	err        error
}

func (s *storefrontTestContext) reset() {
	s.ctx = context.Background()
	s.cfg = &cfg.StorefrontCfg{
		AdminEmail:        "test1278@gmail.com",
		LoginPath:         "/login",
		RecentSearchLimit: 5,
		EncodeTimeout:     time.Second,
		MaxPhotoSize:      1 << 20,
	}
	s.redirects = nil
	s.err = nil
	s.build(state.Catalog{})
}

func (s *storefrontTestContext) build(catalog state.Catalog) {
	log := logger.Nop{}
	store := state.NewStore(state.State{Catalog: catalog}, nil)
	storage := memory.NewStorageRepo()
	keys := pubsub.NewBus[string]()
	enc := encoder.NewEncoder(s.cfg.MaxPhotoSize, log)

	s.session = usecase.NewSessionUC(storage, enc, keys, pubsub.NewBus[domain.NavigationRequest](), s.cfg, log)
	s.session.OnNavigate(func(req domain.NavigationRequest) {
		s.redirects = append(s.redirects, req.Path)
	})
	s.storefront = usecase.NewStorefrontUC(store, s.session, enc, nil, domain.NewIDGenerator(nil), s.cfg, log)
	s.search = usecase.NewSearchUC(store, storage, keys, s.cfg.RecentSearchLimit, log)
}

func (s *storefrontTestContext) theCatalogContains(table *godog.Table) error {
	var products []domain.Product
	for _, row := range table.Rows[1:] {
		id, err := strconv.ParseInt(row.Cells[0].Value, 10, 64)
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		products = append(products, domain.Product{
			ID:     id,
			Name:   row.Cells[1].Value,
			Price:  price,
			ImgSrc: "data:image/png;base64,AA==",
		})
	}

	catalog, err := state.NewCatalog(products...)
	if err != nil {
		return err
	}
	s.build(catalog)
	return nil
}

func (s *storefrontTestContext) iAmSignedInAs(email string) error {
	_, err := s.session.SignIn(s.ctx, "token-"+email, email)
	return err
}

func (s *storefrontTestContext) iAddProductToTheCart(id int64) error {
	_, s.err = s.storefront.AddToCart(s.ctx, id, 1)
	return nil
}

func (s *storefrontTestContext) iRemoveProductFromTheCart(id int64) error {
	_, s.err = s.storefront.RemoveFromCart(s.ctx, id)
	return s.err
}

func (s *storefrontTestContext) iAddProductToTheWishlist(id int64) error {
	_, s.err = s.storefront.AddToWishlist(s.ctx, id)
	return s.err
}

func (s *storefrontTestContext) iAddProductsToCompare(list string) error {
	ids, err := parseIDs(list)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := s.storefront.AddToCompare(s.ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *storefrontTestContext) iAddProductToCompare(id int64) error {
	_, s.err = s.storefront.AddToCompare(s.ctx, id)
	return nil
}

func (s *storefrontTestContext) iRemoveProductFromCompare(id int64) error {
	_, s.err = s.storefront.RemoveFromCompare(s.ctx, id)
	return s.err
}

func (s *storefrontTestContext) iRemoveProductFromTheCatalog(id int64) error {
	s.err = s.storefront.RemoveProduct(s.ctx, id)
	return s.err
}

func (s *storefrontTestContext) iAddAProduct(name, price, oldPrice, discount string) error {
	req := usecase.NewAddProductReq(
		name,
		decimal.RequireFromString(price),
		decimal.RequireFromString(oldPrice),
		discount,
		"",
		"",
		"",
		usecase.NewProductImage(pngPhoto, "image/png", int64(len(pngPhoto)), "photo.png"),
	)
	_, s.err = s.storefront.AddProduct(s.ctx, req)
	return nil
}

func (s *storefrontTestContext) iSearchFor(list string) error {
	for _, q := range parseQuoted(list) {
		s.search.Search(s.ctx, q)
	}
	return nil
}

func (s *storefrontTestContext) theCartHasLine(lines, quantity int, id int64) error {
	cart := s.storefront.Cart(s.ctx)
	if cart.Count != lines {
		return fmt.Errorf("expected %d lines, got %d", lines, cart.Count)
	}
	for _, item := range cart.Items {
		if item.ID == id && item.Quantity == quantity {
			return nil
		}
	}
	return fmt.Errorf("no line for product %d with quantity %d in %+v", id, quantity, cart.Items)
}

func (s *storefrontTestContext) theCartIsEmpty() error {
	if cart := s.storefront.Cart(s.ctx); cart.Count != 0 {
		return fmt.Errorf("expected empty cart, got %+v", cart.Items)
	}
	return nil
}

func (s *storefrontTestContext) theWishlistIsEmpty() error {
	if items := s.storefront.Wishlist(s.ctx, usecase.WishlistQuery{}); len(items) != 0 {
		return fmt.Errorf("expected empty wishlist, got %d items", len(items))
	}
	return nil
}

func (s *storefrontTestContext) theCompareListIsEmpty() error {
	if rows := s.storefront.Compare(s.ctx); len(rows) != 0 {
		return fmt.Errorf("expected empty compare list, got %d items", len(rows))
	}
	return nil
}

func (s *storefrontTestContext) theCompareListIs(list string) error {
	want, err := parseIDs(list)
	if err != nil {
		return err
	}

	var got []int64
	for _, row := range s.storefront.Compare(s.ctx) {
		got = append(got, row.ID)
	}

	if !slices.Equal(got, want) {
		return fmt.Errorf("expected compare list %v, got %v", want, got)
	}
	return nil
}

func (s *storefrontTestContext) theRequestFailsWith(message string) error {
	if s.err == nil {
		return errors.New("expected request to fail but it succeeded")
	}
	if !strings.Contains(s.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, s.err.Error())
	}
	s.err = nil
	return nil
}

func (s *storefrontTestContext) navigationWasRequested(path string) error {
	if !slices.Contains(s.redirects, path) {
		return fmt.Errorf("expected navigation to %q, got %v", path, s.redirects)
	}
	return nil
}

func (s *storefrontTestContext) theNewestCatalogProductIs(name, discount string) error {
	if s.err != nil {
		return fmt.Errorf("unexpected error: %v", s.err)
	}

	catalog := s.storefront.Catalog(s.ctx)
	if len(catalog) == 0 {
		return errors.New("catalog is empty")
	}
	if catalog[0].Name != name || catalog[0].Discount != discount {
		return fmt.Errorf("expected %q with discount %q, got %q with %q", name, discount, catalog[0].Name, catalog[0].Discount)
	}
	return nil
}

func (s *storefrontTestContext) theRecentSearchesAre(list string) error {
	got, err := s.search.Recent(s.ctx)
	if err != nil {
		return err
	}
	if want := parseQuoted(list); !slices.Equal(got, want) {
		return fmt.Errorf("expected recent searches %v, got %v", want, got)
	}
	return nil
}

func parseIDs(list string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(list, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseQuoted(list string) []string {
	var values []string
	for _, part := range strings.Split(list, ",") {
		values = append(values, strings.Trim(strings.TrimSpace(part), `"`))
	}
	return values
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)
	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.iAmSignedInAs)

	// When steps
	ctx.Step(`^I add product (\d+) to the cart$`, tc.iAddProductToTheCart)
	ctx.Step(`^I remove product (\d+) from the cart$`, tc.iRemoveProductFromTheCart)
	ctx.Step(`^I add product (\d+) to the wishlist$`, tc.iAddProductToTheWishlist)
	ctx.Step(`^I add products ([\d, ]+) to compare$`, tc.iAddProductsToCompare)
	ctx.Step(`^I add product (\d+) to compare$`, tc.iAddProductToCompare)
	ctx.Step(`^I remove product (\d+) from compare$`, tc.iRemoveProductFromCompare)
	ctx.Step(`^I remove product (\d+) from the catalog$`, tc.iRemoveProductFromTheCatalog)
	ctx.Step(`^I add a product "([^"]*)" priced (\d+) with old price (\d+) and discount "([^"]*)"$`, tc.iAddAProduct)
	ctx.Step(`^I search for (.+)$`, tc.iSearchFor)

	// Then steps
	ctx.Step(`^the cart has (\d+) line with quantity (\d+) for product (\d+)$`, tc.theCartHasLine)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the wishlist is empty$`, tc.theWishlistIsEmpty)
	ctx.Step(`^the compare list is empty$`, tc.theCompareListIsEmpty)
	ctx.Step(`^the compare list is ([\d, ]+)$`, tc.theCompareListIs)
	ctx.Step(`^the request fails with "([^"]*)"$`, tc.theRequestFailsWith)
	ctx.Step(`^navigation to "([^"]*)" was requested$`, tc.navigationWasRequested)
	ctx.Step(`^the newest catalog product is "([^"]*)" with discount "([^"]*)"$`, tc.theNewestCatalogProductIs)
	ctx.Step(`^the recent searches are (.+)$`, tc.theRecentSearchesAre)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"storefront.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
