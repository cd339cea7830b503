package crm

import (
	"crypto/subtle"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
	"github.com/google/uuid"
)

const (
	clientIDLength  = 9
	productIDLength = 5
	orderIDBase     = 101
)

type Credentials struct {
	Username string
	Password string
}

// Workspace holds the store's records. Readers get copies; every mutation
// requires a prior Login.
type Workspace struct {
	mu            sync.RWMutex
	credentials   Credentials
	authenticated bool
	clients       []Client
	products      []Product
	orders        []Order
	now           func() time.Time
}

type WorkspaceOption func(*Workspace)

// WithSampleData preloads the demo catalogue.
func WithSampleData() WorkspaceOption {
	return func(w *Workspace) {
		w.clients = sampleClients()
		w.products = sampleProducts()
		w.orders = sampleOrders()
	}
}

func WithClock(now func() time.Time) WorkspaceOption {
	return func(w *Workspace) {
		w.now = now
	}
}

func NewWorkspace(credentials Credentials, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{credentials: credentials, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workspace) Login(username string, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(w.credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(w.credentials.Password)) == 1

	w.mu.Lock()
	defer w.mu.Unlock()
	if !userOK || !passOK {
		return utils.WrapIfNotNil(ErrInvalidCredentials)
	}
	w.authenticated = true
	return nil
}

func (w *Workspace) Logout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.authenticated = false
}

func (w *Workspace) Authenticated() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.authenticated
}

func (w *Workspace) Clients() []Client {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.clients)
}

// SearchClients matches term case-insensitively against name or email.
// An empty term returns every client.
func (w *Workspace) SearchClients(term string) []Client {
	w.mu.RLock()
	defer w.mu.RUnlock()

	needle := strings.ToLower(term)
	out := make([]Client, 0, len(w.clients))
	for _, c := range w.clients {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out
}

// SaveClient creates the client when ID is empty and replaces the stored
// fields otherwise. TotalOrders is kept on update and zero on create. An
// empty status means lead on create and the stored status on update.
func (w *Workspace) SaveClient(c Client) (Client, error) {
	if c.Status != "" {
		if _, err := ParseClientStatus(string(c.Status)); err != nil {
			return Client{}, utils.WrapIfNotNil(err)
		}
	}
	if strings.TrimSpace(c.Name) == "" {
		return Client{}, utils.WrapIfNotNil(fmt.Errorf("%w: client name is required", model.ErrInvalidInput))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authenticated {
		return Client{}, utils.WrapIfNotNil(ErrUnauthorized)
	}

	if c.ID == "" {
		c.ID = randomID(clientIDLength)
		c.TotalOrders = 0
		if c.Status == "" {
			c.Status = ClientLead
		}
		w.clients = append(w.clients, c)
		return c, nil
	}

	idx := slices.IndexFunc(w.clients, func(existing Client) bool { return existing.ID == c.ID })
	if idx < 0 {
		return Client{}, utils.WrapIfNotNil(fmt.Errorf("%w: client %q", ErrNotFound, c.ID))
	}
	c.TotalOrders = w.clients[idx].TotalOrders
	if c.Status == "" {
		c.Status = w.clients[idx].Status
	}
	w.clients[idx] = c
	return c, nil
}

func (w *Workspace) DeleteClient(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authenticated {
		return utils.WrapIfNotNil(ErrUnauthorized)
	}

	before := len(w.clients)
	w.clients = slices.DeleteFunc(w.clients, func(c Client) bool { return c.ID == id })
	if len(w.clients) == before {
		return utils.WrapIfNotNil(fmt.Errorf("%w: client %q", ErrNotFound, id))
	}
	return nil
}

func (w *Workspace) Products() []Product {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.products)
}

// SaveProduct mirrors SaveClient. An empty category means
// DefaultProductCategory on create and the stored category on update.
func (w *Workspace) SaveProduct(p Product) (Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, utils.WrapIfNotNil(fmt.Errorf("%w: product name is required", model.ErrInvalidInput))
	}
	if p.Price < 0 || p.Stock < 0 {
		return Product{}, utils.WrapIfNotNil(fmt.Errorf("%w: price and stock must not be negative", model.ErrInvalidInput))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authenticated {
		return Product{}, utils.WrapIfNotNil(ErrUnauthorized)
	}

	if p.ID == "" {
		p.ID = "p" + randomID(productIDLength)
		if strings.TrimSpace(p.Category) == "" {
			p.Category = DefaultProductCategory
		}
		w.products = append(w.products, p)
		return p, nil
	}

	idx := slices.IndexFunc(w.products, func(existing Product) bool { return existing.ID == p.ID })
	if idx < 0 {
		return Product{}, utils.WrapIfNotNil(fmt.Errorf("%w: product %q", ErrNotFound, p.ID))
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = w.products[idx].Category
	}
	w.products[idx] = p
	return p, nil
}

func (w *Workspace) DeleteProduct(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authenticated {
		return utils.WrapIfNotNil(ErrUnauthorized)
	}

	before := len(w.products)
	w.products = slices.DeleteFunc(w.products, func(p Product) bool { return p.ID == id })
	if len(w.products) == before {
		return utils.WrapIfNotNil(fmt.Errorf("%w: product %q", ErrNotFound, id))
	}
	return nil
}

// Orders returns the orders newest first.
func (w *Workspace) Orders() []Order {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Order, len(w.orders))
	for i, o := range w.orders {
		o.Items = slices.Clone(o.Items)
		out[i] = o
	}
	return out
}

// CreateOrder books one product for one client at the product's price.
func (w *Workspace) CreateOrder(clientID string, productID string, status OrderStatus) (Order, error) {
	status, err := ParseOrderStatus(string(status))
	if err != nil {
		return Order{}, utils.WrapIfNotNil(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authenticated {
		return Order{}, utils.WrapIfNotNil(ErrUnauthorized)
	}

	clientIdx := slices.IndexFunc(w.clients, func(c Client) bool { return c.ID == clientID })
	if clientIdx < 0 {
		return Order{}, utils.WrapIfNotNil(fmt.Errorf("%w: client %q", ErrNotFound, clientID))
	}
	productIdx := slices.IndexFunc(w.products, func(p Product) bool { return p.ID == productID })
	if productIdx < 0 {
		return Order{}, utils.WrapIfNotNil(fmt.Errorf("%w: product %q", ErrNotFound, productID))
	}

	client := w.clients[clientIdx]
	product := w.products[productIdx]
	order := Order{
		ID:         w.nextOrderID(),
		ClientID:   client.ID,
		ClientName: client.Name,
		Items:      []string{product.Name},
		Total:      product.Price,
		Status:     status,
		Date:       w.now().Format(time.DateOnly),
	}
	w.orders = append([]Order{order}, w.orders...)
	return order, nil
}

func (w *Workspace) DeleteOrder(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authenticated {
		return utils.WrapIfNotNil(ErrUnauthorized)
	}

	before := len(w.orders)
	w.orders = slices.DeleteFunc(w.orders, func(o Order) bool { return o.ID == id })
	if len(w.orders) == before {
		return utils.WrapIfNotNil(fmt.Errorf("%w: order %q", ErrNotFound, id))
	}
	return nil
}

// nextOrderID numbers orders from the current count. After a delete the
// count can point at an id still in use, so it moves on until it is free.
func (w *Workspace) nextOrderID() string {
	for n := len(w.orders) + orderIDBase; ; n++ {
		id := "ORD-" + strconv.Itoa(n)
		if !slices.ContainsFunc(w.orders, func(o Order) bool { return o.ID == id }) {
			return id
		}
	}
}

func randomID(length int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
}
