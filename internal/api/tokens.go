package api

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClient manages installation tokens and their image seeds.
type TokenClient interface {
	ListTokens(ctx context.Context) ([]Token, error)
	GetToken(ctx context.Context, id uuid.UUID) (Token, error)
	CreateToken(ctx context.Context, token TokenPut) error
	UpdateToken(ctx context.Context, id uuid.UUID, token TokenPut) error
	DeleteToken(ctx context.Context, id uuid.UUID) error
	ListTokenSeeds(ctx context.Context, id uuid.UUID) ([]TokenSeed, error)
	CreateTokenSeed(ctx context.Context, id uuid.UUID, seed TokenSeedPost) error
	DeleteTokenSeed(ctx context.Context, id uuid.UUID, name string) error
}

// Token authorises servers to register during installation.
type Token struct {
	UUID          uuid.UUID `json:"uuid" yaml:"uuid"`
	UsesRemaining int       `json:"uses_remaining" yaml:"uses_remaining"`
	ExpireAt      time.Time `json:"expire_at" yaml:"expire_at"`
	Description   string    `json:"description" yaml:"description"`
}

// TokenPut carries the editable fields of a token.
type TokenPut struct {
	UsesRemaining int       `json:"uses_remaining"`
	ExpireAt      time.Time `json:"expire_at"`
	Description   string    `json:"description"`
}

// TokenSeed is a named set of installation seed values for a token's image.
type TokenSeed struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Public      bool           `json:"public" yaml:"public"`
	Seeds       map[string]any `json:"seeds" yaml:"seeds"`
	LastUpdated time.Time      `json:"last_updated" yaml:"last_updated"`
}

// TokenSeedPost creates a seed.
type TokenSeedPost struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Public      bool           `json:"public"`
	Seeds       map[string]any `json:"seeds"`
}

func (c *client) ListTokens(ctx context.Context) ([]Token, error) {
	var tokens []Token
	if err := c.get(ctx, withQuery(c.apipath("provisioning", "tokens"), "recursion", "1"), &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (c *client) GetToken(ctx context.Context, id uuid.UUID) (Token, error) {
	var token Token
	err := c.get(ctx, c.apipath("provisioning", "tokens", id.String()), &token)
	return token, err
}

func (c *client) CreateToken(ctx context.Context, token TokenPut) error {
	return c.post(ctx, c.apipath("provisioning", "tokens"), token)
}

func (c *client) UpdateToken(ctx context.Context, id uuid.UUID, token TokenPut) error {
	return c.put(ctx, c.apipath("provisioning", "tokens", id.String()), token)
}

func (c *client) DeleteToken(ctx context.Context, id uuid.UUID) error {
	return c.delete(ctx, c.apipath("provisioning", "tokens", id.String()))
}

func (c *client) ListTokenSeeds(ctx context.Context, id uuid.UUID) ([]TokenSeed, error) {
	var seeds []TokenSeed
	u := withQuery(c.apipath("provisioning", "tokens", id.String(), "seeds"), "recursion", "1")
	if err := c.get(ctx, u, &seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}

func (c *client) CreateTokenSeed(ctx context.Context, id uuid.UUID, seed TokenSeedPost) error {
	return c.post(ctx, c.apipath("provisioning", "tokens", id.String(), "seeds"), seed)
}

func (c *client) DeleteTokenSeed(ctx context.Context, id uuid.UUID, name string) error {
	return c.delete(ctx, c.apipath("provisioning", "tokens", id.String(), "seeds", name))
}
