package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
	"github.com/ghhamo/lootsy/internal/repository"
)

// memStore backs every mock repository so joins (cart lines, order items) see the same data.
type memStore struct {
	users      map[int64]*model.User
	categories map[int64]*model.Category
	products   map[int64]*model.Product
	carts      map[int64]*model.Cart
	cartItems  map[[2]int64]*model.CartItem
	shippings  map[int64]*model.Shipping
	orders     map[int64]*model.Order
	nextID     int64

	placeErr   error
	cartErr    error
	lastSearch dto.ProductQuery
	writes     int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[int64]*model.User),
		categories: make(map[int64]*model.Category),
		products:   make(map[int64]*model.Product),
		carts:      make(map[int64]*model.Cart),
		cartItems:  make(map[[2]int64]*model.CartItem),
		shippings:  make(map[int64]*model.Shipping),
		orders:     make(map[int64]*model.Order),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sortedKeys[V any](in map[int64]V) []int64 {
	keys := make([]int64, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// --- users ---

type mockUserRepo struct{ *memStore }

func (m mockUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = m.id()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	m.users[u.ID] = &cp
	m.writes++
	return nil
}

// CreateWithCart writes nothing when either insert fails.
func (m mockUserRepo) CreateWithCart(ctx context.Context, u *model.User) (*model.Cart, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicate
		}
	}
	if m.cartErr != nil {
		return nil, m.cartErr
	}
	if err := m.Create(ctx, u); err != nil {
		return nil, err
	}
	cart := &model.Cart{UserID: u.ID}
	if err := (mockCartRepo{m.memStore}).Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (m mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m mockUserRepo) List(_ context.Context, limit, offset int) ([]model.User, error) {
	var all []model.User
	for _, id := range sortedKeys(m.users) {
		all = append(all, *m.users[id])
	}
	return window(all, limit, offset), nil
}

func (m mockUserRepo) Count(_ context.Context) (int64, error) { return int64(len(m.users)), nil }

func (m mockUserRepo) UpdateProfile(_ context.Context, u *model.User) error {
	if existing, ok := m.users[u.ID]; ok {
		existing.Name, existing.Surname, existing.PhoneNumber = u.Name, u.Surname, u.PhoneNumber
		m.writes++
	}
	return nil
}

func (m mockUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	_, ok := m.users[id]
	delete(m.users, id)
	return ok, nil
}

// --- categories ---

type mockCategoryRepo struct{ *memStore }

func (m mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = m.id()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m mockCategoryRepo) GetByID(_ context.Context, id int64) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m mockCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, id := range sortedKeys(m.categories) {
		out = append(out, *m.categories[id])
	}
	return out, nil
}

// --- products ---

type mockProductRepo struct{ *memStore }

func (m mockProductRepo) Create(_ context.Context, p *model.Product) error {
	if _, ok := m.categories[p.CategoryID]; !ok {
		return repository.ErrReferenced
	}
	p.ID = m.id()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

// CreateBatch writes nothing unless every product references a known category.
func (m mockProductRepo) CreateBatch(ctx context.Context, products []model.Product) error {
	for _, p := range products {
		if _, ok := m.categories[p.CategoryID]; !ok {
			return repository.ErrReferenced
		}
	}
	for i := range products {
		if err := m.Create(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m mockProductRepo) GetByID(_ context.Context, id int64) (*model.Product, error) {
	if p, ok := m.products[id]; ok {
		cp := *p
		if c, ok := m.categories[p.CategoryID]; ok {
			cp.CategoryName = c.Name
		}
		return &cp, nil
	}
	return nil, nil
}

func (m mockProductRepo) Search(_ context.Context, q dto.ProductQuery, limit, offset int) ([]model.Product, int64, error) {
	m.lastSearch = q
	var all []model.Product
	for _, id := range sortedKeys(m.products) {
		p := m.products[id]
		if q.Search != "" {
			s := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Name), s) && !strings.Contains(strings.ToLower(p.Description), s) {
				continue
			}
		}
		if len(q.CategoryIDs) > 0 && !containsID(q.CategoryIDs, p.CategoryID) {
			continue
		}
		if q.MinPrice != nil && q.MaxPrice != nil && (p.Price.LessThan(*q.MinPrice) || p.Price.GreaterThan(*q.MaxPrice)) {
			continue
		}
		all = append(all, *p)
	}
	return window(all, limit, offset), int64(len(all)), nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (m mockProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, id := range sortedKeys(m.products) {
		out = append(out, *m.products[id])
	}
	return out, nil
}

func (m mockProductRepo) Count(_ context.Context) (int64, error) { return int64(len(m.products)), nil }

// --- carts ---

type mockCartRepo struct{ *memStore }

func (m mockCartRepo) Create(_ context.Context, c *model.Cart) error {
	for _, existing := range m.carts {
		if existing.UserID == c.UserID {
			return repository.ErrDuplicate
		}
	}
	c.ID = m.id()
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	cp := *c
	m.carts[c.ID] = &cp
	return nil
}

func (m mockCartRepo) GetByUserID(_ context.Context, userID int64) (*model.Cart, error) {
	for _, c := range m.carts {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m mockCartRepo) GetOrCreate(ctx context.Context, userID int64) (*model.Cart, error) {
	if c, _ := m.GetByUserID(ctx, userID); c != nil {
		return c, nil
	}
	c := &model.Cart{UserID: userID}
	if err := m.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m mockCartRepo) List(_ context.Context, limit, offset int) ([]model.Cart, error) {
	var all []model.Cart
	for _, id := range sortedKeys(m.carts) {
		all = append(all, *m.carts[id])
	}
	return window(all, limit, offset), nil
}

func (m mockCartRepo) Count(_ context.Context) (int64, error) { return int64(len(m.carts)), nil }

func (m mockCartRepo) Lines(_ context.Context, cartID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	for _, pid := range sortedKeys(m.products) {
		item, ok := m.cartItems[[2]int64{cartID, pid}]
		if !ok {
			continue
		}
		p := m.products[pid]
		lines = append(lines, model.CartLine{
			ProductID: pid, Name: p.Name, Price: p.Price, Quantity: item.Quantity,
			ImageURLS: p.ImageURLS, ImageURLM: p.ImageURLM, ImageURLL: p.ImageURLL, AddedAt: item.AddedAt,
		})
	}
	return lines, nil
}

func (m mockCartRepo) AddItem(_ context.Context, item *model.CartItem) error {
	if _, ok := m.products[item.ProductID]; !ok {
		return repository.ErrReferenced
	}
	key := [2]int64{item.CartID, item.ProductID}
	if existing, ok := m.cartItems[key]; ok {
		existing.Quantity += item.Quantity
		item.Quantity = existing.Quantity
	} else {
		cp := *item
		cp.AddedAt = time.Now()
		m.cartItems[key] = &cp
	}
	m.touch(item.CartID)
	return nil
}

func (m mockCartRepo) RemoveItem(_ context.Context, cartID, productID int64) error {
	delete(m.cartItems, [2]int64{cartID, productID})
	m.touch(cartID)
	return nil
}

func (m mockCartRepo) Clear(_ context.Context, cartID int64) error {
	m.clear(cartID)
	m.touch(cartID)
	return nil
}

func (m *memStore) clear(cartID int64) {
	for key := range m.cartItems {
		if key[0] == cartID {
			delete(m.cartItems, key)
		}
	}
}

func (m *memStore) touch(cartID int64) {
	if c, ok := m.carts[cartID]; ok {
		c.UpdatedAt = time.Now()
	}
}

// --- shippings ---

type mockShippingRepo struct{ *memStore }

func (m mockShippingRepo) Create(_ context.Context, s *model.Shipping) error {
	s.ID = m.id()
	cp := *s
	m.shippings[s.ID] = &cp
	return nil
}

func (m mockShippingRepo) GetByID(_ context.Context, id int64) (*model.Shipping, error) {
	if s, ok := m.shippings[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m mockShippingRepo) List(_ context.Context, limit, offset int) ([]model.Shipping, error) {
	var all []model.Shipping
	for _, id := range sortedKeys(m.shippings) {
		all = append(all, *m.shippings[id])
	}
	return window(all, limit, offset), nil
}

func (m mockShippingRepo) Count(_ context.Context) (int64, error) { return int64(len(m.shippings)), nil }

func (m mockShippingRepo) Update(_ context.Context, s *model.Shipping) error {
	cp := *s
	m.shippings[s.ID] = &cp
	return nil
}

func (m mockShippingRepo) Delete(_ context.Context, id int64) (bool, error) {
	for _, o := range m.orders {
		if o.ShippingID == id {
			return false, repository.ErrReferenced
		}
	}
	_, ok := m.shippings[id]
	delete(m.shippings, id)
	return ok, nil
}

// --- orders ---

type mockOrderRepo struct{ *memStore }

func (m mockOrderRepo) PlaceOrder(_ context.Context, o *model.Order, cartID int64) error {
	if m.placeErr != nil {
		return m.placeErr
	}
	o.ID = m.id()
	o.CreatedAt, o.UpdatedAt = time.Now(), time.Now()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	m.orders[o.ID] = &cp
	m.clear(cartID)
	m.touch(cartID)
	return nil
}

func (m mockOrderRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (m mockOrderRepo) filtered(f repository.OrderFilter) []model.Order {
	var out []model.Order
	for _, id := range sortedKeys(m.orders) {
		o := m.orders[id]
		if o.UserID != f.UserID {
			continue
		}
		if f.From != nil && f.To != nil && (o.CreatedAt.Before(*f.From) || o.CreatedAt.After(*f.To)) {
			continue
		}
		out = append(out, *o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m mockOrderRepo) ListByUser(_ context.Context, f repository.OrderFilter, limit, offset int) ([]model.Order, error) {
	return window(m.filtered(f), limit, offset), nil
}

func (m mockOrderRepo) CountByUser(_ context.Context, f repository.OrderFilter) (int64, error) {
	return int64(len(m.filtered(f))), nil
}

func (m mockOrderRepo) UpdateStatus(_ context.Context, o *model.Order) error {
	if existing, ok := m.orders[o.ID]; ok {
		existing.Status = o.Status
		existing.UpdatedAt = time.Now()
		o.UpdatedAt = existing.UpdatedAt
	}
	return nil
}

func (m mockOrderRepo) Stats(_ context.Context, userID int64) (model.UserStats, error) {
	stats := model.UserStats{TotalSpent: decimal.Zero}
	for _, o := range m.orders {
		if o.UserID == userID {
			stats.TotalOrders++
			stats.TotalSpent = stats.TotalSpent.Add(o.TotalAmount)
		}
	}
	return stats, nil
}

// --- publisher ---

type recordingPublisher struct {
	events []model.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, e model.OrderEvent) error {
	p.events = append(p.events, e)
	return p.err
}

// fixture wires every service against one memStore.
type fixture struct {
	store     *memStore
	publisher *recordingPublisher
	users     *UserService
	auth      *AuthService
	carts     *CartService
	products  *ProductService
	orders    *OrderService
	shippings *ShippingService
	category  *CategoryService
}

func newFixture() *fixture {
	st := newMemStore()
	pub := &recordingPublisher{}
	userRepo, cartRepo, productRepo := mockUserRepo{st}, mockCartRepo{st}, mockProductRepo{st}
	orderRepo, shippingRepo, categoryRepo := mockOrderRepo{st}, mockShippingRepo{st}, mockCategoryRepo{st}
	return &fixture{
		store:     st,
		publisher: pub,
		users:     NewUserService(userRepo, orderRepo, nil, time.Minute),
		auth:      NewAuthService(userRepo, "test-secret", time.Hour),
		carts:     NewCartService(cartRepo, productRepo, userRepo),
		products:  NewProductService(productRepo, categoryRepo, nil, time.Minute, "", discardLogger()),
		orders:    NewOrderService(orderRepo, cartRepo, productRepo, userRepo, shippingRepo, pub, discardLogger()),
		shippings: NewShippingService(shippingRepo),
		category:  NewCategoryService(categoryRepo),
	}
}

func (f *fixture) addProduct(name, price string) *model.Product {
	var catID int64
	for id := range f.store.categories {
		catID = id
	}
	if catID == 0 {
		c := &model.Category{Name: "Accessories"}
		_ = mockCategoryRepo{f.store}.Create(context.Background(), c)
		catID = c.ID
	}
	p := &model.Product{Name: name, Price: decimal.RequireFromString(price), Description: name, CategoryID: catID, ImageURLS: "/tmp/" + name + "_200.jpg"}
	_ = mockProductRepo{f.store}.Create(context.Background(), p)
	return p
}

func (f *fixture) addShipping() *model.Shipping {
	s := &model.Shipping{FirstName: "A", LastName: "B", Country: "AM", City: "Yerevan", StreetAddress: "1 St", PhoneNumber: "+374"}
	_ = mockShippingRepo{f.store}.Create(context.Background(), s)
	return s
}
