package scan

import (
	"testing"

	"github.com/wfunc/starvault/events"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/persistence"
	"github.com/wfunc/starvault/services"
	"github.com/wfunc/starvault/vault"
)

// MockDatabase is an in-memory test double for persistence.Database.
type MockDatabase struct {
	cards map[string][]models.GameEvent
}

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{cards: make(map[string][]models.GameEvent)}
}

func (m *MockDatabase) SaveCard(owner string, card models.GameEvent, position int) error {
	m.cards[owner] = append(m.cards[owner], card)
	return nil
}
func (m *MockDatabase) DeleteCard(owner, cardID string) error { return nil }
func (m *MockDatabase) ReplaceCards(owner string, cards []models.GameEvent) error {
	m.cards[owner] = cards
	return nil
}
func (m *MockDatabase) LoadCards(owner string) ([]models.GameEvent, error) {
	return m.cards[owner], nil
}
func (m *MockDatabase) SaveProfile(owner string, p models.Profile) error { return nil }
func (m *MockDatabase) LoadProfile(owner string) (*models.Profile, error) {
	return nil, persistence.ErrRecordNotFound
}
func (m *MockDatabase) SetSetting(owner, key, value string) error { return nil }
func (m *MockDatabase) GetSetting(owner, key string) (string, error) {
	return "", persistence.ErrRecordNotFound
}
func (m *MockDatabase) Close() error { return nil }

// MockInventory is a test double for services.InventoryAPI.
type MockInventory struct {
	lookups map[string]models.GameEvent
	calls   int
}

func NewMockInventory() *MockInventory {
	return &MockInventory{lookups: make(map[string]models.GameEvent)}
}

func (m *MockInventory) Fetch(owner string) ([]models.GameEvent, error) { return nil, nil }
func (m *MockInventory) Upsert(owner string, card models.GameEvent) error { return nil }
func (m *MockInventory) Delete(owner, cardID string) error { return nil }
func (m *MockInventory) Get(owner, cardID string) (*models.GameEvent, error) {
	return nil, services.ErrNotFound
}
func (m *MockInventory) Lookup(cardID string) (*models.GameEvent, error) {
	m.calls++
	if e, ok := m.lookups[cardID]; ok {
		return &e, nil
	}
	return nil, services.ErrNotFound
}
func (m *MockInventory) Catalog() ([]models.GameEvent, error) { return nil, nil }
func (m *MockInventory) GetCharacter(id string) (*models.Character, error) {
	return nil, services.ErrNotFound
}
func (m *MockInventory) SaveCharacter(ch models.Character) error { return nil }
func (m *MockInventory) DeleteCharacter(id string) error { return nil }

// MockGates is a test double for the pre-resolution gates.
type MockGates struct {
	turnGate  bool
	fuelEmpty bool
}

func (m *MockGates) TurnGateActive() bool { return m.turnGate }
func (m *MockGates) FuelEmpty() bool      { return m.fuelEmpty }

type fixture struct {
	vault    *vault.Vault
	catalog  *events.Catalog
	remote   *MockInventory
	conn     *services.Connectivity
	gates    *MockGates
	resolver *Resolver
}

func newFixture() *fixture {
	f := &fixture{
		catalog: events.NewCatalog(),
		remote:  NewMockInventory(),
		conn:    services.NewConnectivity(),
		gates:   &MockGates{},
	}
	f.vault = vault.New("tester@example.com", false, NewMockDatabase(), f.remote)
	f.resolver = NewResolver(f.vault, f.catalog, f.remote, f.conn, f.gates, nil)
	return f
}

func TestResolve_VaultBeforeCatalog(t *testing.T) {
	f := newFixture()
	f.vault.Add(models.GameEvent{ID: "evt__a", Title: "Owned"})
	f.catalog.Replace([]models.GameEvent{{ID: "evt__a", Title: "Catalog"}})

	out := f.resolver.Resolve("evt__a", OriginScan)
	if out.Kind != OutcomeEvent {
		t.Fatalf("Expected event outcome, got %s", out.Kind)
	}
	if out.Event.Title != "Owned" {
		t.Errorf("Expected vault copy to win, got %s", out.Event.Title)
	}
}

func TestResolve_VaultBaseIDMatch(t *testing.T) {
	f := newFixture()
	f.vault.Add(models.GameEvent{ID: "evt__print1", Title: "Owned"})

	out := f.resolver.Resolve("evt__print2", OriginScan)
	if out.Kind != OutcomeEvent {
		t.Fatalf("Expected base-ID match, got %s", out.Kind)
	}
}

func TestResolve_CatalogBeforeRemote(t *testing.T) {
	f := newFixture()
	f.catalog.Replace([]models.GameEvent{{ID: "evt__b", Title: "Catalog"}})
	f.remote.lookups["evt__b"] = models.GameEvent{ID: "evt__b", Title: "Remote"}

	out := f.resolver.Resolve("evt__b", OriginScan)
	if out.Event.Title != "Catalog" {
		t.Errorf("Expected catalog hit, got %s", out.Event.Title)
	}
	if f.remote.calls != 0 {
		t.Errorf("Remote must not be consulted on a catalog hit, got %d calls", f.remote.calls)
	}
}

func TestResolve_RemoteFallback(t *testing.T) {
	f := newFixture()
	f.remote.lookups["evt__c"] = models.GameEvent{ID: "evt__c", Title: "Remote"}

	out := f.resolver.Resolve("evt__c", OriginScan)
	if out.Kind != OutcomeEvent {
		t.Fatalf("Expected remote hit, got %s", out.Kind)
	}
	if out.Event.Title != "Remote" {
		t.Errorf("Expected remote copy, got %s", out.Event.Title)
	}
}

func TestResolve_RemoteSkippedOffline(t *testing.T) {
	f := newFixture()
	f.conn.SetOnline(false)
	f.remote.lookups["evt__c"] = models.GameEvent{ID: "evt__c", Title: "Remote"}

	out := f.resolver.Resolve("evt__c", OriginScan)
	if out.Kind != OutcomeNotFound {
		t.Fatalf("Expected not-found while offline, got %s", out.Kind)
	}
	if f.remote.calls != 0 {
		t.Errorf("Remote must not be consulted offline, got %d calls", f.remote.calls)
	}
}

func TestResolve_NotFound(t *testing.T) {
	f := newFixture()

	out := f.resolver.Resolve("evt__missing", OriginScan)
	if out.Kind != OutcomeNotFound {
		t.Errorf("Expected not-found, got %s", out.Kind)
	}
}

func TestResolve_TurnGateBlocks(t *testing.T) {
	f := newFixture()
	f.gates.turnGate = true
	f.catalog.Replace([]models.GameEvent{{ID: "evt__b"}})

	out := f.resolver.Resolve("evt__b", OriginScan)
	if out.Kind != OutcomeBlockedTurn {
		t.Errorf("Expected turn-blocked outcome, got %s", out.Kind)
	}
}

func TestResolve_FuelGateBlocks(t *testing.T) {
	f := newFixture()
	f.gates.fuelEmpty = true
	f.catalog.Replace([]models.GameEvent{{ID: "evt__b"}})

	out := f.resolver.Resolve("evt__b", OriginScan)
	if out.Kind != OutcomeBlockedFuel {
		t.Errorf("Expected fuel-blocked outcome, got %s", out.Kind)
	}
}

func TestResolve_PrefixesBypassGates(t *testing.T) {
	f := newFixture()
	f.gates.turnGate = true
	f.gates.fuelEmpty = true

	out := f.resolver.Resolve("friend__abc123", OriginScan)
	if out.Kind != OutcomeFriend {
		t.Fatalf("Expected friend outcome through gates, got %s", out.Kind)
	}
	if out.FriendCode != "abc123" {
		t.Errorf("Expected friend code abc123, got %s", out.FriendCode)
	}

	out = f.resolver.Resolve("char__navigator", OriginScan)
	if out.Kind != OutcomeCharacter {
		t.Fatalf("Expected character outcome through gates, got %s", out.Kind)
	}
	if out.CharacterID != "navigator" {
		t.Errorf("Expected character ID navigator, got %s", out.CharacterID)
	}
}

func TestResolve_StationDocksOnlyFromScan(t *testing.T) {
	f := newFixture()
	f.catalog.Replace([]models.GameEvent{{ID: "st__hub", Kind: models.KindStation}})

	if out := f.resolver.Resolve("st__hub", OriginScan); out.Kind != OutcomeDock {
		t.Errorf("Expected dock outcome from scan, got %s", out.Kind)
	}
	if out := f.resolver.Resolve("st__hub", OriginVault); out.Kind != OutcomeEvent {
		t.Errorf("Expected plain event from vault open, got %s", out.Kind)
	}
}
