package models

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process record store with the same contracts as the
// Supabase tables. Access tokens are ignored; ownership is still enforced.
type MemoryStore struct {
	mu           sync.Mutex
	now          func() time.Time
	packages     []*Package
	addOns       []*AddOn
	promoCodes   []*PromoCode
	clients      []*Client
	projects     []*Project
	leads        []*Lead
	transactions []*Transaction
	feedback     []*ClientFeedback
	profiles     []*Profile

	// OnWrite runs before every mutation, outside the lock. A non-nil error
	// fails the write.
	OnWrite func(op string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

type storedRow interface {
	rowID() uuid.UUID
	rowOwner() uuid.UUID
	stamp(id uuid.UUID, at time.Time)
}

type rowPtr[T any] interface {
	*T
	storedRow
}

func (p *Package) rowID() uuid.UUID {
	return p.ID
}

func (p *Package) rowOwner() uuid.UUID {
	return p.UserID
}

func (p *Package) stamp(id uuid.UUID, at time.Time) {
	p.ID, p.CreatedAt = id, at
}

func (a *AddOn) rowID() uuid.UUID {
	return a.ID
}

func (a *AddOn) rowOwner() uuid.UUID {
	return a.UserID
}

func (a *AddOn) stamp(id uuid.UUID, at time.Time) {
	a.ID, a.CreatedAt = id, at
}

func (p *PromoCode) rowID() uuid.UUID {
	return p.ID
}

func (p *PromoCode) rowOwner() uuid.UUID {
	return p.UserID
}

func (p *PromoCode) stamp(id uuid.UUID, at time.Time) {
	p.ID, p.CreatedAt = id, at
}

func (c *Client) rowID() uuid.UUID {
	return c.ID
}

func (c *Client) rowOwner() uuid.UUID {
	return c.UserID
}

func (c *Client) stamp(id uuid.UUID, at time.Time) {
	c.ID, c.CreatedAt = id, at
}

func (p *Project) rowID() uuid.UUID {
	return p.ID
}

func (p *Project) rowOwner() uuid.UUID {
	return p.UserID
}

func (p *Project) stamp(id uuid.UUID, at time.Time) {
	p.ID, p.CreatedAt = id, at
}

func (l *Lead) rowID() uuid.UUID {
	return l.ID
}

func (l *Lead) rowOwner() uuid.UUID {
	return l.UserID
}

func (l *Lead) stamp(id uuid.UUID, at time.Time) {
	l.ID, l.CreatedAt = id, at
}

func (t *Transaction) rowID() uuid.UUID {
	return t.ID
}

func (t *Transaction) rowOwner() uuid.UUID {
	return t.UserID
}

func (t *Transaction) stamp(id uuid.UUID, at time.Time) {
	t.ID, t.CreatedAt = id, at
}

func (f *ClientFeedback) rowID() uuid.UUID {
	return f.ID
}

func (f *ClientFeedback) rowOwner() uuid.UUID {
	return f.UserID
}

func (f *ClientFeedback) stamp(id uuid.UUID, at time.Time) {
	f.ID, f.CreatedAt = id, at
}

func (p *Profile) rowID() uuid.UUID {
	return p.ID
}

func (p *Profile) rowOwner() uuid.UUID {
	return p.UserID
}

func (p *Profile) stamp(id uuid.UUID, at time.Time) {
	p.ID, p.CreatedAt, p.UpdatedAt = id, at, at
}

func (s *MemoryStore) hook(op string) error {
	if s.OnWrite == nil {
		return nil
	}
	if err := s.OnWrite(op); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func memInsert[T any, P rowPtr[T]](s *MemoryStore, rows *[]*T, row *T) *T {
	stored := *row
	P(&stored).stamp(uuid.New(), s.now())
	*rows = append(*rows, &stored)
	out := stored
	return &out
}

// memOwned returns copies of the rows owned by userID, newest first.
func memOwned[T any, P rowPtr[T]](rows []*T, userID uuid.UUID) []*T {
	out := []*T{}
	for i := len(rows) - 1; i >= 0; i-- {
		if P(rows[i]).rowOwner() == userID {
			cp := *rows[i]
			out = append(out, &cp)
		}
	}
	return out
}

func memFind[T any, P rowPtr[T]](rows []*T, id, userID uuid.UUID) (int, bool) {
	for i, row := range rows {
		if P(row).rowID() == id && P(row).rowOwner() == userID {
			return i, true
		}
	}
	return -1, false
}

// memPatch applies column-keyed fields the way an UPDATE with the same map would.
func memPatch[T any](row *T, fields map[string]interface{}) (*T, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	merged := map[string]interface{}{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range fields {
		if k == "id" || k == "user_id" {
			continue
		}
		merged[k] = v
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var patched T
	if err := json.Unmarshal(raw, &patched); err != nil {
		return nil, fmt.Errorf("failed to apply update: %v", err)
	}
	return &patched, nil
}

func memUpdate[T any, P rowPtr[T]](rows []*T, id, userID uuid.UUID, fields map[string]interface{}) (*T, error) {
	i, ok := memFind[T, P](rows, id, userID)
	if !ok {
		return nil, ErrNotFound
	}
	patched, err := memPatch(rows[i], fields)
	if err != nil {
		return nil, err
	}
	rows[i] = patched
	out := *patched
	return &out, nil
}

func memDelete[T any, P rowPtr[T]](rows *[]*T, id, userID uuid.UUID) error {
	i, ok := memFind[T, P](*rows, id, userID)
	if !ok {
		return ErrNotFound
	}
	*rows = append((*rows)[:i], (*rows)[i+1:]...)
	return nil
}

func (s *MemoryStore) CreatePackage(ctx context.Context, pkg *Package, accessToken string) (*Package, error) {
	if err := s.hook("create_package"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.packages, pkg), nil
}

func (s *MemoryStore) ListPackages(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.packages, userID), nil
}

func (s *MemoryStore) GetPackage(ctx context.Context, id, userID uuid.UUID) (*Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := memFind(s.packages, id, userID)
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.packages[i]
	return &cp, nil
}

func (s *MemoryStore) UpdatePackage(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Package, error) {
	if err := s.hook("update_package"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.packages, id, userID, fields)
}

func (s *MemoryStore) DeletePackage(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_package"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.packages, id, userID)
}

func (s *MemoryStore) CreateAddOn(ctx context.Context, addOn *AddOn, accessToken string) (*AddOn, error) {
	if err := s.hook("create_add_on"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.addOns, addOn), nil
}

func (s *MemoryStore) ListAddOns(ctx context.Context, userID uuid.UUID, accessToken string) ([]*AddOn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.addOns, userID), nil
}

func (s *MemoryStore) DeleteAddOn(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_add_on"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.addOns, id, userID)
}

func (s *MemoryStore) CreatePromoCode(ctx context.Context, promo *PromoCode, accessToken string) (*PromoCode, error) {
	if err := s.hook("create_promo_code"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.promoCodes, promo), nil
}

func (s *MemoryStore) ListPromoCodes(ctx context.Context, userID uuid.UUID, accessToken string) ([]*PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.promoCodes, userID), nil
}

func (s *MemoryStore) ListActivePromoCodes(ctx context.Context, userID uuid.UUID) ([]*PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*PromoCode{}
	for _, p := range memOwned(s.promoCodes, userID) {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdatePromoCodeUsage(ctx context.Context, id uuid.UUID) error {
	if err := s.hook("update_promo_code_usage"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.promoCodes {
		if p.ID != id {
			continue
		}
		if p.IsMaxedOut() {
			return ErrPromoCodeExhausted
		}
		p.UsageCount++
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) DeletePromoCode(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_promo_code"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.promoCodes, id, userID)
}

func (s *MemoryStore) CreateClient(ctx context.Context, client *Client, accessToken string) (*Client, error) {
	if err := s.hook("create_client"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.clients, client), nil
}

func (s *MemoryStore) ListClients(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.clients, userID), nil
}

func (s *MemoryStore) GetClientByPortalID(ctx context.Context, portalAccessID uuid.UUID) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.PortalAccessID == portalAccessID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateClient(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Client, error) {
	if err := s.hook("update_client"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.clients, id, userID, fields)
}

func (s *MemoryStore) DeleteClient(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_client"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.clients, id, userID)
}

func (s *MemoryStore) CreateProject(ctx context.Context, project *Project, accessToken string) (*Project, error) {
	if err := s.hook("create_project"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.projects, project), nil
}

func (s *MemoryStore) ListProjects(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.projects, userID), nil
}

func (s *MemoryStore) ListProjectsByClient(ctx context.Context, clientID uuid.UUID) ([]*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Project{}
	for i := len(s.projects) - 1; i >= 0; i-- {
		if s.projects[i].ClientID == clientID {
			cp := *s.projects[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateProject(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Project, error) {
	if err := s.hook("update_project"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.projects, id, userID, fields)
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_project"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.projects, id, userID)
}

func (s *MemoryStore) CreateLead(ctx context.Context, lead *Lead, accessToken string) (*Lead, error) {
	if err := s.hook("create_lead"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.leads, lead), nil
}

func (s *MemoryStore) ListLeads(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.leads, userID), nil
}

func (s *MemoryStore) UpdateLead(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Lead, error) {
	if err := s.hook("update_lead"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memUpdate(s.leads, id, userID, fields)
}

func (s *MemoryStore) DeleteLead(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_lead"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.leads, id, userID)
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, tx *Transaction, accessToken string) (*Transaction, error) {
	if err := s.hook("create_transaction"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.transactions, tx), nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.transactions, userID), nil
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if err := s.hook("delete_transaction"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memDelete(&s.transactions, id, userID)
}

func (s *MemoryStore) CreateFeedback(ctx context.Context, feedback *ClientFeedback) (*ClientFeedback, error) {
	if err := s.hook("create_feedback"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.feedback, feedback), nil
}

func (s *MemoryStore) ListFeedback(ctx context.Context, userID uuid.UUID, accessToken string) ([]*ClientFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memOwned(s.feedback, userID), nil
}

func (s *MemoryStore) CreateProfile(ctx context.Context, profile *Profile, accessToken string) (*Profile, error) {
	if err := s.hook("create_profile"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return memInsert(s, &s.profiles, profile), nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID uuid.UUID, accessToken string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Profile, error) {
	if err := s.hook("update_profile"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.profiles {
		if p.UserID != userID {
			continue
		}
		patched, err := memPatch(p, fields)
		if err != nil {
			return nil, err
		}
		patched.UpdatedAt = s.now()
		s.profiles[i] = patched
		out := *patched
		return &out, nil
	}
	return nil, ErrNotFound
}
