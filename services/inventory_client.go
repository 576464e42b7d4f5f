// services/inventory_client.go
package services

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wfunc/starvault/models"
)

// InventoryAPI 库存服务接口
// Per-user card storage, the shared master catalog and character
// templates.
type InventoryAPI interface {
	Fetch(owner string) ([]models.GameEvent, error)
	Upsert(owner string, card models.GameEvent) error
	Delete(owner, cardID string) error
	Get(owner, cardID string) (*models.GameEvent, error)
	// Lookup fetches a single catalog card by exact ID.
	Lookup(cardID string) (*models.GameEvent, error)
	Catalog() ([]models.GameEvent, error)
	GetCharacter(id string) (*models.Character, error)
	SaveCharacter(c models.Character) error
	DeleteCharacter(id string) error
}

// InventoryClient is the HTTP implementation of InventoryAPI.
type InventoryClient struct {
	rest *restClient
}

func NewInventoryClient(baseURL string, timeout time.Duration, conn *Connectivity) *InventoryClient {
	return &InventoryClient{
		rest: newRESTClient(baseURL, timeout, conn),
	}
}

func ownerPath(owner, suffix string) string {
	return "/inventories/" + url.PathEscape(owner) + suffix
}

func (c *InventoryClient) Fetch(owner string) ([]models.GameEvent, error) {
	var cards []models.GameEvent
	if err := c.rest.do(http.MethodGet, ownerPath(owner, "/cards"), nil, &cards); err != nil {
		return nil, fmt.Errorf("fetch inventory for %s: %w", owner, err)
	}
	return cards, nil
}

func (c *InventoryClient) Upsert(owner string, card models.GameEvent) error {
	return c.rest.do(http.MethodPut, ownerPath(owner, "/cards/"+url.PathEscape(card.ID)), card, nil)
}

func (c *InventoryClient) Delete(owner, cardID string) error {
	return c.rest.do(http.MethodDelete, ownerPath(owner, "/cards/"+url.PathEscape(cardID)), nil, nil)
}

func (c *InventoryClient) Get(owner, cardID string) (*models.GameEvent, error) {
	var card models.GameEvent
	if err := c.rest.do(http.MethodGet, ownerPath(owner, "/cards/"+url.PathEscape(cardID)), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *InventoryClient) Lookup(cardID string) (*models.GameEvent, error) {
	var card models.GameEvent
	if err := c.rest.do(http.MethodGet, "/catalog/"+url.PathEscape(cardID), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *InventoryClient) Catalog() ([]models.GameEvent, error) {
	var cards []models.GameEvent
	if err := c.rest.do(http.MethodGet, "/catalog", nil, &cards); err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return cards, nil
}

func (c *InventoryClient) GetCharacter(id string) (*models.Character, error) {
	var ch models.Character
	if err := c.rest.do(http.MethodGet, "/characters/"+url.PathEscape(id), nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *InventoryClient) SaveCharacter(ch models.Character) error {
	return c.rest.do(http.MethodPut, "/characters/"+url.PathEscape(ch.ID), ch, nil)
}

func (c *InventoryClient) DeleteCharacter(id string) error {
	return c.rest.do(http.MethodDelete, "/characters/"+url.PathEscape(id), nil, nil)
}
