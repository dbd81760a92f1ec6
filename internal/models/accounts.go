package models

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusDeleted  AccountStatus = "DELETED"
)

// Account is the capability the contract workflow needs from any party:
// an active account and somewhere to send mail. Concrete roles stay
// separate structs; there is no shared person hierarchy.
type Account interface {
	AccountActive() bool
	ContactEmail() string
}

type Client struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (c *Client) AccountActive() bool  { return c.Status == AccountStatusActive }
func (c *Client) ContactEmail() string { return c.Email }

type SalesAgent struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (a *SalesAgent) AccountActive() bool  { return a.Status == AccountStatusActive }
func (a *SalesAgent) ContactEmail() string { return a.Email }

// WarehouseStaff is the member of staff responsible for physical
// check-ins and check-outs; movements reference them.
type WarehouseStaff struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (s *WarehouseStaff) AccountActive() bool  { return s.Status == AccountStatusActive }
func (s *WarehouseStaff) ContactEmail() string { return s.Email }
