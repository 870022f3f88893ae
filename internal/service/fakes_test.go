package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/queue"
	"github.com/homelist/homelist-api/internal/repository"
)

// memUsers is an in-memory UserStore.
type memUsers struct {
	mu        sync.Mutex
	byID      map[uint64]model.User
	next      uint64
	createErr error
}

func newMemUsers(seed ...model.User) *memUsers {
	s := &memUsers{byID: map[uint64]model.User{}}
	for _, u := range seed {
		s.byID[u.ID] = u
		if u.ID > s.next {
			s.next = u.ID
		}
	}
	return s
}

func (s *memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.next++
	u.ID = s.next
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	s.byID[u.ID] = *u
	return nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// memHomes is an in-memory HomeStore backed by the users it resolves
// realtors from.
type memHomes struct {
	users  *memUsers
	homes  map[uint64]model.Home
	images map[uint64][]model.Image
	next   uint64
}

func newMemHomes(users *memUsers) *memHomes {
	return &memHomes{users: users, homes: map[uint64]model.Home{}, images: map[uint64][]model.Image{}}
}

func (s *memHomes) Search(_ context.Context, f model.HomeFilter) ([]model.HomeSummary, error) {
	out := []model.HomeSummary{}
	ids := make([]uint64, 0, len(s.homes))
	for id := range s.homes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		h := s.homes[id]
		if f.City != "" && h.City != f.City {
			continue
		}
		if f.MinPrice != nil && h.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && h.Price > *f.MaxPrice {
			continue
		}
		if f.PropertyType != "" && h.PropertyType != f.PropertyType {
			continue
		}
		sum := model.HomeSummary{ID: h.ID, Address: h.Address, City: h.City, Price: h.Price, PropertyType: h.PropertyType, RealtorID: h.RealtorID}
		if imgs := s.images[id]; len(imgs) > 0 {
			sum.Image = imgs[0].URL
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *memHomes) GetByID(_ context.Context, id uint64) (model.Home, error) {
	h, ok := s.homes[id]
	if !ok {
		return model.Home{}, repository.ErrNotFound
	}
	return h, nil
}

func (s *memHomes) Images(_ context.Context, homeID uint64) ([]model.Image, error) {
	return s.images[homeID], nil
}

func (s *memHomes) Create(_ context.Context, h *model.Home, urls []string) ([]model.Image, error) {
	s.next++
	h.ID = s.next
	s.homes[h.ID] = *h
	imgs := make([]model.Image, 0, len(urls))
	for i, u := range urls {
		imgs = append(imgs, model.Image{ID: uint64(i + 1), URL: u, HomeID: h.ID})
	}
	s.images[h.ID] = imgs
	return imgs, nil
}

func (s *memHomes) Update(_ context.Context, id uint64, c model.HomeChanges) error {
	h := s.homes[id]
	if c.City != nil {
		h.City = *c.City
	}
	if c.Price != nil {
		h.Price = *c.Price
	}
	if c.Address != nil {
		h.Address = *c.Address
	}
	s.homes[id] = h
	return nil
}

func (s *memHomes) Delete(_ context.Context, id uint64) error {
	if _, ok := s.homes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.homes, id)
	delete(s.images, id)
	return nil
}

func (s *memHomes) Realtor(ctx context.Context, homeID uint64) (model.Contact, error) {
	h, ok := s.homes[homeID]
	if !ok {
		return model.Contact{}, repository.ErrNotFound
	}
	u, err := s.users.GetByID(ctx, h.RealtorID)
	if err != nil {
		return model.Contact{}, err
	}
	return model.Contact{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}, nil
}

func (s *memHomes) SetRealtor(_ context.Context, homeID, realtorID uint64) error {
	h, ok := s.homes[homeID]
	if !ok {
		return repository.ErrNotFound
	}
	h.RealtorID = realtorID
	s.homes[homeID] = h
	return nil
}

// memMessages is an in-memory MessageStore.
type memMessages struct {
	users *memUsers
	rows  []model.Message
}

func (s *memMessages) Create(_ context.Context, m *model.Message) error {
	m.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *m)
	return nil
}

func (s *memMessages) ListByHome(ctx context.Context, homeID uint64) ([]model.Inquiry, error) {
	out := []model.Inquiry{}
	for _, m := range s.rows {
		if m.HomeID != homeID {
			continue
		}
		b, _ := s.users.GetByID(ctx, m.BuyerID)
		out = append(out, model.Inquiry{Message: m.Message, Buyer: model.Contact{Name: b.Name, Email: b.Email, Phone: b.Phone}})
	}
	return out, nil
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishInquiry(ctx context.Context, ev queue.InquiryCreatedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) Purge(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var (
	rita  = model.User{ID: 1, Name: "Rita", Email: "rita@example.com", Phone: "555-0101", Role: model.RoleRealtor}
	roy   = model.User{ID: 2, Name: "Roy", Email: "roy@example.com", Phone: "555-0102", Role: model.RoleRealtor}
	bob   = model.User{ID: 3, Name: "Bob", Email: "bob@example.com", Phone: "555-0199", Role: model.RoleBuyer}
	admin = model.User{ID: 4, Name: "Ada", Email: "ada@example.com", Role: model.RoleAdmin}
)
