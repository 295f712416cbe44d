package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"shop-service/internal/models"
	"shop-service/internal/payment"
	"shop-service/internal/repository"
)

// In-memory repositories implementing the same contract as the pgx
// implementations: sentinel errors, unique slugs, creation-time-
// descending list ordering, inclusive price bounds.

type fakeUserRepo struct {
	nextID int
	users  map[int]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int]models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already exists", repository.ErrDuplicate)
		}
	}
	u.UserID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.UserID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.UserID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	f.users[u.UserID] = *u
	return nil
}

type fakeCategoryRepo struct {
	nextID     int
	categories map[int]models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1, categories: map[int]models.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	for _, existing := range f.categories {
		if existing.Slug == c.Slug {
			return fmt.Errorf("%w: category slug already exists", repository.ErrDuplicate)
		}
	}
	c.CategoryID = f.nextID
	f.nextID++
	f.categories[c.CategoryID] = *c
	return nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *models.Category) error {
	if _, ok := f.categories[c.CategoryID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range f.categories {
		if id != c.CategoryID && existing.Slug == c.Slug {
			return fmt.Errorf("%w: category slug already exists", repository.ErrDuplicate)
		}
	}
	f.categories[c.CategoryID] = *c
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) GetAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeProductRepo struct {
	nextID   int
	products map[int]models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{nextID: 1, products: map[int]models.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	for _, existing := range f.products {
		if existing.Slug == p.Slug {
			return fmt.Errorf("%w: product slug already exists", repository.ErrDuplicate)
		}
	}
	p.ProductID = f.nextID
	f.nextID++
	// Creation order is the list order; a strictly increasing clock
	// keeps created-descending sorts stable.
	p.CreatedAt = time.Unix(int64(1_700_000_000+p.ProductID), 0)
	p.UpdatedAt = p.CreatedAt
	f.products[p.ProductID] = *p
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	existing, ok := f.products[p.ProductID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	if p.Photo == nil {
		p.Photo = existing.Photo
		p.PhotoType = existing.PhotoType
	}
	f.products[p.ProductID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) sortedDesc() []models.Product {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeProductRepo) GetAll(_ context.Context, limit int) ([]models.Product, error) {
	out := f.sortedDesc()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProductRepo) GetPage(_ context.Context, page, perPage int) ([]models.Product, error) {
	out := f.sortedDesc()
	start := (page - 1) * perPage
	if start >= len(out) {
		return nil, nil
	}
	end := start + perPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (f *fakeProductRepo) Count(_ context.Context) (int, error) {
	return len(f.products), nil
}

func (f *fakeProductRepo) Filter(_ context.Context, categoryIDs []int, priceRange []float64) ([]models.Product, error) {
	if len(priceRange) != 0 && len(priceRange) != 2 {
		return nil, fmt.Errorf("%w: price range must be [min, max]", repository.ErrInvalidInput)
	}

	var out []models.Product
	for _, p := range f.sortedDesc() {
		if len(categoryIDs) > 0 {
			match := false
			for _, id := range categoryIDs {
				if p.CategoryID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if len(priceRange) == 2 && (p.Price < priceRange[0] || p.Price > priceRange[1]) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Search(_ context.Context, keyword string) ([]models.Product, error) {
	lower := func(s string) string {
		b := []byte(s)
		for i := range b {
			if b[i] >= 'A' && b[i] <= 'Z' {
				b[i] += 'a' - 'A'
			}
		}
		return string(b)
	}
	contains := func(haystack, needle string) bool {
		h, n := lower(haystack), lower(needle)
		for i := 0; i+len(n) <= len(h); i++ {
			if h[i:i+len(n)] == n {
				return true
			}
		}
		return false
	}

	var out []models.Product
	for _, p := range f.sortedDesc() {
		if contains(p.Name, keyword) || contains(p.Description, keyword) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetRelated(_ context.Context, productID, categoryID, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.sortedDesc() {
		if p.CategoryID == categoryID && p.ProductID != productID {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetByCategory(_ context.Context, categoryID int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.sortedDesc() {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetPhoto(_ context.Context, id int) ([]byte, string, error) {
	p, ok := f.products[id]
	if !ok || len(p.Photo) == 0 {
		return nil, "", repository.ErrNotFound
	}
	return p.Photo, p.PhotoType, nil
}

type fakeOrderRepo struct {
	nextID int
	orders []models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{nextID: 1}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order, items []models.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order must have at least one item", repository.ErrInvalidInput)
	}
	order.OrderID = f.nextID
	f.nextID++
	order.CreatedAt = time.Now()
	order.Items = items
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderRepo) GetByBuyer(_ context.Context, buyerID int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetAll(_ context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: invalid status '%s'", repository.ErrInvalidInput, status)
	}
	for i := range f.orders {
		if f.orders[i].OrderID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeGateway struct {
	token    string
	tokenErr error

	saleResult *payment.Result
	saleErr    error

	lastAmount decimal.Decimal
	lastNonce  string
	saleCalls  int
}

func (f *fakeGateway) ClientToken(_ context.Context) (string, error) {
	return f.token, f.tokenErr
}

func (f *fakeGateway) Sale(_ context.Context, amount decimal.Decimal, nonce string) (*payment.Result, error) {
	f.saleCalls++
	f.lastAmount = amount
	f.lastNonce = nonce
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	return f.saleResult, nil
}
