package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/utils"
)

/* ------------------------------------------------------------------
   In-memory repositories. They mirror the compare-and-swap semantics
   of the SQL layer: every atomic method checks state and row version
   under one lock, exactly like the transactional SELECT FOR UPDATE.
------------------------------------------------------------------ */

const commandTagUpdated = "UPDATE 1"
const commandTagNoop = "UPDATE 0"

func cloneSpace(s *models.Space) *models.Space {
	c := *s
	if s.ContractID != nil {
		id := *s.ContractID
		c.ContractID = &id
	}
	return &c
}

func cloneContract(c *models.Contract) *models.Contract {
	d := *c
	if c.ClientSignedAt != nil {
		t := *c.ClientSignedAt
		d.ClientSignedAt = &t
	}
	d.ClientSignature = append([]byte(nil), c.ClientSignature...)
	d.AgentSignature = append([]byte(nil), c.AgentSignature...)
	d.BillingDetails = append([]models.BillingDetail(nil), c.BillingDetails...)
	return &d
}

type memWarehouseRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{items: map[uuid.UUID]*models.Warehouse{}}
}

func (r *memWarehouseRepo) Create(ctx context.Context, w *models.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.items[w.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *memWarehouseRepo) ListAll(ctx context.Context) ([]*models.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Warehouse
	for _, w := range r.items {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memWarehouseRepo) Update(ctx context.Context, w *models.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	cp.RowVersion++
	r.items[w.ID] = &cp
	w.RowVersion = cp.RowVersion
	return nil
}

func (r *memWarehouseRepo) UpdateIfVersion(ctx context.Context, w *models.Warehouse, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[w.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(commandTagNoop), nil
	}
	cp := *w
	cp.RowVersion = expected + 1
	r.items[w.ID] = &cp
	w.RowVersion = cp.RowVersion
	return pgconn.CommandTag(commandTagUpdated), nil
}

func (r *memWarehouseRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Warehouse) error) error {
	for attempt := 0; attempt < 3; attempt++ {
		w, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return pgx.ErrNoRows
		}
		old := w.RowVersion
		if err := mutate(w); err != nil {
			return err
		}
		tag, err := r.UpdateIfVersion(ctx, w, old)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return utils.ErrRowVersionConflict
}

func (r *memWarehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type memSpaceRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Space
}

func newMemSpaceRepo() *memSpaceRepo {
	return &memSpaceRepo{items: map[uuid.UUID]*models.Space{}}
}

func (r *memSpaceRepo) Create(ctx context.Context, s *models.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = cloneSpace(s)
	return nil
}

func (r *memSpaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneSpace(s), nil
}

func (r *memSpaceRepo) ListByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Space
	for _, s := range r.items {
		if s.WarehouseID == warehouseID {
			out = append(out, cloneSpace(s))
		}
	}
	return out, nil
}

func (r *memSpaceRepo) ListFreeByWarehouseID(ctx context.Context, warehouseID uuid.UUID) ([]*models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Space
	for _, s := range r.items {
		if s.WarehouseID == warehouseID && s.Status == models.SpaceStatusFree {
			out = append(out, cloneSpace(s))
		}
	}
	return out, nil
}

func (r *memSpaceRepo) Update(ctx context.Context, s *models.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneSpace(s)
	cp.RowVersion++
	r.items[s.ID] = cp
	s.RowVersion = cp.RowVersion
	return nil
}

func (r *memSpaceRepo) UpdateIfVersion(ctx context.Context, s *models.Space, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[s.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(commandTagNoop), nil
	}
	cp := cloneSpace(s)
	cp.RowVersion = expected + 1
	r.items[s.ID] = cp
	s.RowVersion = cp.RowVersion
	return pgconn.CommandTag(commandTagUpdated), nil
}

func (r *memSpaceRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Space) error) error {
	for attempt := 0; attempt < 3; attempt++ {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return pgx.ErrNoRows
		}
		old := s.RowVersion
		if err := mutate(s); err != nil {
			return err
		}
		tag, err := r.UpdateIfVersion(ctx, s, old)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
	}
	return utils.ErrRowVersionConflict
}

func (r *memSpaceRepo) AttachContractAtomic(ctx context.Context, spaceID, contractID uuid.UUID, expectedVersion int64) (*models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[spaceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if s.Status != models.SpaceStatusFree {
		return cloneSpace(s), utils.ErrStateConflict
	}
	if s.RowVersion != expectedVersion {
		return cloneSpace(s), utils.ErrRowVersionConflict
	}
	id := contractID
	s.ContractID = &id
	s.Status = models.SpaceStatusLeasedAvailable
	s.RowVersion++
	return cloneSpace(s), nil
}

func (r *memSpaceRepo) ReleaseContractAtomic(ctx context.Context, spaceID uuid.UUID) (*models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[spaceID]
	if !ok {
		return nil, nil
	}
	if s.Status == models.SpaceStatusFree {
		return cloneSpace(s), nil
	}
	s.ContractID = nil
	s.Status = models.SpaceStatusFree
	s.RowVersion++
	return cloneSpace(s), nil
}

func (r *memSpaceRepo) SetStatusAtomic(ctx context.Context, spaceID uuid.UUID, status models.SpaceStatus, expectedVersion int64) (*models.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[spaceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if s.RowVersion != expectedVersion {
		return cloneSpace(s), utils.ErrRowVersionConflict
	}
	s.Status = status
	s.RowVersion++
	return cloneSpace(s), nil
}

type memProductRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: map[uuid.UUID]*models.Product{}}
}

func (r *memProductRepo) Create(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) ListActiveBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.items {
		if p.SpaceID == spaceID && p.Status == models.ProductStatusInWarehouse {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) ListByClientID(ctx context.Context, clientID uuid.UUID) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.items {
		if p.ClientID == clientID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) RetireAtomic(ctx context.Context, productID uuid.UUID, expectedVersion int64) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[productID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if p.Status != models.ProductStatusInWarehouse {
		cp := *p
		return &cp, utils.ErrStateConflict
	}
	if p.RowVersion != expectedVersion {
		cp := *p
		return &cp, utils.ErrRowVersionConflict
	}
	p.Status = models.ProductStatusRetired
	p.RowVersion++
	cp := *p
	return &cp, nil
}

type memMovementRepo struct {
	mu    sync.Mutex
	items []*models.Movement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Create(ctx context.Context, m *models.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.items = append(r.items, &cp)
	return nil
}

func (r *memMovementRepo) ListBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*models.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Movement
	for _, m := range r.items {
		if m.SpaceID == spaceID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByProductID(ctx context.Context, productID uuid.UUID) ([]*models.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Movement
	for _, m := range r.items {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memContractRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Contract
}

func newMemContractRepo() *memContractRepo {
	return &memContractRepo{items: map[uuid.UUID]*models.Contract{}}
}

func (r *memContractRepo) Create(ctx context.Context, c *models.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = cloneContract(c)
	return nil
}

func (r *memContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneContract(c), nil
}

func (r *memContractRepo) FindLiveBySpaceAndClient(ctx context.Context, spaceID, clientID uuid.UUID) (*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.SpaceID == spaceID && c.ClientID == clientID && !terminal(c.State) {
			return cloneContract(c), nil
		}
	}
	return nil, nil
}

func terminal(s models.ContractState) bool {
	return s == models.ContractStateCancelled || s == models.ContractStateFinished
}

func (r *memContractRepo) ListByClientID(ctx context.Context, clientID uuid.UUID, f repositories.ContractFilter) ([]*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Contract
	for _, c := range r.items {
		if c.ClientID != clientID {
			continue
		}
		if f.State != nil && c.State != *f.State {
			continue
		}
		if f.StartDate != nil && !sameDay(c.StartDate, *f.StartDate) {
			continue
		}
		out = append(out, cloneContract(c))
	}
	return out, nil
}

func (r *memContractRepo) ListByAgentID(ctx context.Context, agentID uuid.UUID, f repositories.ContractFilter) ([]*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Contract
	for _, c := range r.items {
		if c.AgentID != agentID {
			continue
		}
		if f.State != nil && c.State != *f.State {
			continue
		}
		out = append(out, cloneContract(c))
	}
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (r *memContractRepo) FindPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Contract
	for _, c := range r.items {
		if c.State == models.ContractStatePendingVerification &&
			len(c.ClientSignature) == 0 &&
			c.StartDate.Before(cutoff) {
			out = append(out, cloneContract(c))
		}
	}
	return out, nil
}

func (r *memContractRepo) SignByClientAtomic(ctx context.Context, id uuid.UUID, signature []byte, signedAt time.Time, expectedVersion int64) (*models.Contract, error) {
	return r.transition(id, []models.ContractState{models.ContractStatePendingVerification}, expectedVersion, func(c *models.Contract) {
		c.ClientSignature = append([]byte(nil), signature...)
		t := signedAt
		c.ClientSignedAt = &t
		c.State = models.ContractStateVerifiedByClient
	})
}

func (r *memContractRepo) SignByAgentAtomic(ctx context.Context, id uuid.UUID, signature []byte, expectedVersion int64) (*models.Contract, error) {
	return r.transition(id, []models.ContractState{models.ContractStateVerifiedByClient}, expectedVersion, func(c *models.Contract) {
		c.AgentSignature = append([]byte(nil), signature...)
		c.State = models.ContractStateActive
	})
}

func (r *memContractRepo) CancelAtomic(ctx context.Context, id uuid.UUID, from []models.ContractState, expectedVersion int64) (*models.Contract, error) {
	return r.transition(id, from, expectedVersion, func(c *models.Contract) {
		c.State = models.ContractStateCancelled
	})
}

func (r *memContractRepo) UpdateTermsAtomic(ctx context.Context, c *models.Contract, expectedVersion int64) (*models.Contract, error) {
	return r.transition(c.ID, []models.ContractState{models.ContractStatePendingVerification}, expectedVersion, func(cur *models.Contract) {
		cur.StartDate = c.StartDate
		cur.EndDate = c.EndDate
		cur.Value = c.Value
		cur.Description = c.Description
		cur.BillingDetails = append([]models.BillingDetail(nil), c.BillingDetails...)
	})
}

func (r *memContractRepo) transition(id uuid.UUID, allowed []models.ContractState, expectedVersion int64, apply func(*models.Contract)) (*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stateOK := false
	for _, a := range allowed {
		if c.State == a {
			stateOK = true
			break
		}
	}
	if !stateOK {
		return cloneContract(c), utils.ErrStateConflict
	}
	if c.RowVersion != expectedVersion {
		return cloneContract(c), utils.ErrRowVersionConflict
	}
	apply(c)
	c.RowVersion++
	return cloneContract(c), nil
}

type memClientRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{items: map[uuid.UUID]*models.Client{}}
}

func (r *memClientRepo) Create(ctx context.Context, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memClientRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		c.Status = status
	}
	return nil
}

type memAgentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.SalesAgent
}

func newMemAgentRepo() *memAgentRepo {
	return &memAgentRepo{items: map[uuid.UUID]*models.SalesAgent{}}
}

func (r *memAgentRepo) Create(ctx context.Context, a *models.SalesAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *memAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SalesAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAgentRepo) GetByEmail(ctx context.Context, email string) (*models.SalesAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAgentRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.items[id]; ok {
		a.Status = status
	}
	return nil
}

type memStaffRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.WarehouseStaff
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{items: map[uuid.UUID]*models.WarehouseStaff{}}
}

func (r *memStaffRepo) Create(ctx context.Context, s *models.WarehouseStaff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *memStaffRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseStaff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memStaffRepo) GetByEmail(ctx context.Context, email string) (*models.WarehouseStaff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memStaffRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok {
		s.Status = status
	}
	return nil
}

/* ------------------------------------------------------------------
   Fake collaborators
------------------------------------------------------------------ */

type sentMail struct {
	Recipient  string
	Subject    string
	Body       string
	Attachment *Attachment
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *fakeNotifier) Notify(recipientName, recipientEmail, subject, body string, attachment *Attachment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{
		Recipient:  recipientEmail,
		Subject:    subject,
		Body:       body,
		Attachment: attachment,
	})
	return nil
}

func (n *fakeNotifier) sentTo(email string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.Recipient == email {
			out = append(out, m)
		}
	}
	return out
}

type fakeRenderer struct{}

func (fakeRenderer) RenderContractDocument(c *models.Contract, client *models.Client, agent *models.SalesAgent) ([]byte, error) {
	return []byte("contract " + c.ID.String()), nil
}

func (fakeRenderer) RenderDebtNotice(c *models.Contract, client *models.Client) ([]byte, error) {
	return []byte("debt notice " + c.ID.String()), nil
}

/* ------------------------------------------------------------------
   Fixture
------------------------------------------------------------------ */

type fixture struct {
	warehouseRepo *memWarehouseRepo
	spaceRepo     *memSpaceRepo
	productRepo   *memProductRepo
	movementRepo  *memMovementRepo
	contractRepo  *memContractRepo
	clientRepo    *memClientRepo
	agentRepo     *memAgentRepo
	staffRepo     *memStaffRepo
	notifier      *fakeNotifier

	ledger    *LedgerService
	facility  *FacilityService
	allocator *AllocatorService
	contracts *ContractService
	sweeper   *SweeperService

	warehouse *models.Warehouse
	client    *models.Client
	agent     *models.SalesAgent
	staffID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		warehouseRepo: newMemWarehouseRepo(),
		spaceRepo:     newMemSpaceRepo(),
		productRepo:   newMemProductRepo(),
		movementRepo:  newMemMovementRepo(),
		contractRepo:  newMemContractRepo(),
		clientRepo:    newMemClientRepo(),
		agentRepo:     newMemAgentRepo(),
		staffRepo:     newMemStaffRepo(),
		notifier:      &fakeNotifier{},
		staffID:       uuid.New(),
	}

	f.ledger = NewLedgerService(f.warehouseRepo, f.spaceRepo, f.productRepo)
	f.facility = NewFacilityService(f.warehouseRepo, f.spaceRepo, f.productRepo)
	f.allocator = NewAllocatorService(f.ledger, f.spaceRepo, f.productRepo, f.movementRepo, f.contractRepo, f.clientRepo, f.staffRepo, f.notifier)
	f.contracts = NewContractService(f.contractRepo, f.spaceRepo, f.warehouseRepo, f.productRepo, f.clientRepo, f.agentRepo, f.ledger, fakeRenderer{}, f.notifier)
	f.sweeper = NewSweeperService(f.contractRepo, f.ledger, f.clientRepo, f.agentRepo, f.notifier)

	ctx := context.Background()

	f.warehouse = &models.Warehouse{
		ID:        uuid.New(),
		Address:   "12 Dock Road",
		Phone:     "+15550100",
		TotalArea: models.SquareMeters(1000),
		Height:    8,
		Status:    models.WarehouseStatusActive,
	}
	f.warehouse.RowVersion = 1
	_ = f.warehouseRepo.Create(ctx, f.warehouse)

	f.client = &models.Client{ID: uuid.New(), Name: "Ada Client", Email: "ada@example.com", Status: models.AccountStatusActive}
	_ = f.clientRepo.Create(ctx, f.client)
	f.agent = &models.SalesAgent{ID: uuid.New(), Name: "Sam Agent", Email: "sam@example.com", Status: models.AccountStatusActive}
	_ = f.agentRepo.Create(ctx, f.agent)
	_ = f.staffRepo.Create(ctx, &models.WarehouseStaff{ID: f.staffID, Name: "Wes Staff", Email: "wes@example.com", Status: models.AccountStatusActive})

	return f
}

// addSpace creates a FREE space directly in the repo.
func (f *fixture) addSpace(available float64) *models.Space {
	s := &models.Space{
		ID:            uuid.New(),
		WarehouseID:   f.warehouse.ID,
		TotalArea:     models.SquareMeters(available),
		AvailableArea: models.SquareMeters(available),
		Height:        6,
		Status:        models.SpaceStatusFree,
	}
	s.RowVersion = 1
	_ = f.spaceRepo.Create(context.Background(), s)
	return s
}

// leaseSpace runs the whole happy path: create, client sign, agent
// sign. Returns the ACTIVE contract.
func (f *fixture) leaseSpace(ctx context.Context, space *models.Space, start time.Time) (*models.Contract, error) {
	c, err := f.contracts.Create(ctx, CreateContractParams{
		ClientID:  f.client.ID,
		AgentID:   f.agent.ID,
		SpaceID:   space.ID,
		StartDate: start,
		EndDate:   start.AddDate(1, 0, 0),
		Value:     1200,
	})
	if err != nil {
		return nil, err
	}
	if _, err := f.contracts.ClientSign(ctx, c.ID, []byte("client-sig")); err != nil {
		return nil, err
	}
	return f.contracts.AgentSign(ctx, c.ID, []byte("agent-sig"))
}
