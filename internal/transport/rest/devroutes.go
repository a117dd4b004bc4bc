package rest

import (
	"github.com/google/uuid"

	"github.com/logistics-id/signalhub/internal/common"
	"github.com/logistics-id/signalhub/internal/store/postgres"
)

// RegisterDevRoutes mounts seed endpoints used only in local/dev
// environments to exercise the store without a full auth/user-management
// service sitting in front of it. Never mount these in production — the
// caller is responsible for gating on Config.IsDev.
func RegisterDevRoutes(s *Server, db *postgres.Client) {
	seed := &devSeed{db: db}
	s.POST("/dev/users", seed.createUser)
	s.POST("/dev/contacts", seed.createContact)
	s.POST("/dev/tokens", seed.issueToken)
}

type devSeed struct {
	db *postgres.Client
}

type createUserRequest struct {
	Email    string `json:"email" valid:"required|email"`
	Password string `json:"password" valid:"required"`
}

func (s *devSeed) createUser(c *Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		return c.Respond(nil, err)
	}

	user := &postgres.User{ID: uuid.NewString(), Email: req.Email, PasswordHash: hash}
	if _, err := s.db.DB.NewInsert().Model(user).Exec(c.Request.Context()); err != nil {
		return c.Respond(nil, err)
	}

	return c.Respond(user, nil)
}

type createContactRequest struct {
	OwnerID string `json:"owner_id" valid:"required"`
	PeerID  string `json:"peer_id" valid:"required"`
}

func (s *devSeed) createContact(c *Context) error {
	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	contact := &postgres.Contact{
		ID:      uuid.NewString(),
		OwnerID: req.OwnerID,
		PeerID:  req.PeerID,
		Status:  postgres.ContactStatusAccepted,
	}
	if _, err := s.db.DB.NewInsert().Model(contact).Exec(c.Request.Context()); err != nil {
		return c.Respond(nil, err)
	}

	return c.Respond(contact, nil)
}

type issueTokenRequest struct {
	UserID string `json:"user_id" valid:"required"`
	Email  string `json:"email" valid:"required|email"`
}

func (s *devSeed) issueToken(c *Context) error {
	var req issueTokenRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	pair, err := common.TokenEncode(req.UserID, req.Email)
	if err != nil {
		return c.Respond(nil, err)
	}

	return c.Respond(pair, nil)
}
