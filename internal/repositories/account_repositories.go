package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/store-it/rental-service/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error
}

type AgentRepository interface {
	Create(ctx context.Context, a *models.SalesAgent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SalesAgent, error)
	GetByEmail(ctx context.Context, email string) (*models.SalesAgent, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error
}

type StaffRepository interface {
	Create(ctx context.Context, s *models.WarehouseStaff) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseStaff, error)
	GetByEmail(ctx context.Context, email string) (*models.WarehouseStaff, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error
}

type clientRepo struct {
	db DB
}

func NewClientRepository(db DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO clients (id, name, email, status, created_at)
        VALUES ($1,$2,$3,$4, NOW())
    `, c.ID, c.Name, c.Email, c.Status)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, email, status, created_at FROM clients WHERE id=$1
    `, id)
	return scanClient(row)
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, email, status, created_at FROM clients WHERE email=$1
    `, email)
	return scanClient(row)
}

func (r *clientRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE clients SET status=$1 WHERE id=$2`, status, id)
	return err
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Status, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type agentRepo struct {
	db DB
}

func NewAgentRepository(db DB) AgentRepository {
	return &agentRepo{db: db}
}

func (r *agentRepo) Create(ctx context.Context, a *models.SalesAgent) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO sales_agents (id, name, email, status, created_at)
        VALUES ($1,$2,$3,$4, NOW())
    `, a.ID, a.Name, a.Email, a.Status)
	return err
}

func (r *agentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SalesAgent, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, email, status, created_at FROM sales_agents WHERE id=$1
    `, id)
	return scanAgent(row)
}

func (r *agentRepo) GetByEmail(ctx context.Context, email string) (*models.SalesAgent, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, email, status, created_at FROM sales_agents WHERE email=$1
    `, email)
	return scanAgent(row)
}

func (r *agentRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE sales_agents SET status=$1 WHERE id=$2`, status, id)
	return err
}

func scanAgent(row pgx.Row) (*models.SalesAgent, error) {
	var a models.SalesAgent
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Status, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

type staffRepo struct {
	db DB
}

func NewStaffRepository(db DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, s *models.WarehouseStaff) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO warehouse_staff (id, name, email, status, created_at)
        VALUES ($1,$2,$3,$4, NOW())
    `, s.ID, s.Name, s.Email, s.Status)
	return err
}

func (r *staffRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WarehouseStaff, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, email, status, created_at FROM warehouse_staff WHERE id=$1
    `, id)
	return scanStaff(row)
}

func (r *staffRepo) GetByEmail(ctx context.Context, email string) (*models.WarehouseStaff, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, name, email, status, created_at FROM warehouse_staff WHERE email=$1
    `, email)
	return scanStaff(row)
}

func (r *staffRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	_, err := r.db.Exec(ctx, `UPDATE warehouse_staff SET status=$1 WHERE id=$2`, status, id)
	return err
}

func scanStaff(row pgx.Row) (*models.WarehouseStaff, error) {
	var s models.WarehouseStaff
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Status, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
