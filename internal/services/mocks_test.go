package services

import (
	"context"
	"log/slog"

	"clubhub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// mockUnitOfWork runs the callback directly; the repositories used in tests
// are in-memory, so there is no transaction to manage.
type mockUnitOfWork struct {
	beginErr error
	calls    int
}

func (m *mockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	m.calls++
	return fn(ctx)
}

type mockUserRepo struct {
	users   map[string]*domain.User
	byEmail map[string]*domain.User
	updated []*domain.User
	err     error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = "u-created"
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, user)
	return nil
}

type mockFamilyRepo struct {
	byHolder map[string]*domain.Family
	byID     map[string]*domain.Family
	updated  []*domain.Family
	err      error
}

func (m *mockFamilyRepo) Create(ctx context.Context, family *domain.Family) error {
	if m.err != nil {
		return m.err
	}
	family.ID = "f-created"
	return nil
}

func (m *mockFamilyRepo) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (m *mockFamilyRepo) GetByHolderID(ctx context.Context, holderID string) (*domain.Family, error) {
	f, ok := m.byHolder[holderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

func (m *mockFamilyRepo) Update(ctx context.Context, family *domain.Family) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, family)
	return nil
}

func (m *mockFamilyRepo) AddDependant(ctx context.Context, dep *domain.Dependant) error {
	if m.err != nil {
		return m.err
	}
	dep.ID = "d-created"
	return nil
}

type mockClubRepo struct {
	clubs       map[string]*domain.Club
	byPrincipal map[string]*domain.Club
	created     []*domain.Club
	activeCount map[string]int
	searchOut   []*domain.Club
	err         error
}

func (m *mockClubRepo) Create(ctx context.Context, club *domain.Club) error {
	if m.err != nil {
		return m.err
	}
	club.ID = "c-created"
	m.created = append(m.created, club)
	return nil
}

func (m *mockClubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c, ok := m.clubs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockClubRepo) GetByPrincipalID(ctx context.Context, principalID string) (*domain.Club, error) {
	c, ok := m.byPrincipal[principalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockClubRepo) Update(ctx context.Context, club *domain.Club) error {
	if m.err != nil {
		return m.err
	}
	return nil
}

func (m *mockClubRepo) Search(ctx context.Context, filter domain.ClubSearchFilter) ([]*domain.Club, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.searchOut, nil
}

func (m *mockClubRepo) CountActiveMembers(ctx context.Context, clubID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.activeCount[clubID], nil
}

type mockClubRequestRepo struct {
	reqs      map[string]*domain.ClubRequest
	created   []*domain.ClubRequest
	updated   []*domain.ClubRequest
	pending   []*domain.ClubRequest
	createErr error
	updateErr error
}

func (m *mockClubRequestRepo) Create(ctx context.Context, req *domain.ClubRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	req.ID = "cr-created"
	m.created = append(m.created, req)
	return nil
}

func (m *mockClubRequestRepo) GetByID(ctx context.Context, id string) (*domain.ClubRequest, error) {
	r, ok := m.reqs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockClubRequestRepo) Update(ctx context.Context, req *domain.ClubRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, req)
	return nil
}

func (m *mockClubRequestRepo) ListPending(ctx context.Context) ([]*domain.ClubRequest, error) {
	return m.pending, nil
}

func (m *mockClubRequestRepo) ListByRequesterID(ctx context.Context, requesterID string) ([]*domain.ClubRequest, error) {
	var out []*domain.ClubRequest
	for _, r := range m.reqs {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockEnrollmentRepo struct {
	reqs      map[string]*domain.EnrollmentRequest
	pending   map[string]*domain.EnrollmentRequest // dependantID:clubID
	byClub    map[string][]*domain.EnrollmentRequest
	created   []*domain.EnrollmentRequest
	updated   []*domain.EnrollmentRequest
	createErr error
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, req *domain.EnrollmentRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	req.ID = "er-created"
	m.created = append(m.created, req)
	return nil
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, id string) (*domain.EnrollmentRequest, error) {
	r, ok := m.reqs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, req *domain.EnrollmentRequest) error {
	m.updated = append(m.updated, req)
	return nil
}

func (m *mockEnrollmentRepo) GetPendingByDependantAndClub(ctx context.Context, dependantID, clubID string) (*domain.EnrollmentRequest, error) {
	r, ok := m.pending[dependantID+":"+clubID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockEnrollmentRepo) ListPendingByClubID(ctx context.Context, clubID string) ([]*domain.EnrollmentRequest, error) {
	return m.byClub[clubID], nil
}

func (m *mockEnrollmentRepo) ListByFamilyID(ctx context.Context, familyID string) ([]*domain.EnrollmentRequest, error) {
	return nil, nil
}

type mockMembershipRepo struct {
	active  map[string]*domain.ClubMembership // dependantID:clubID
	created []*domain.ClubMembership
	updated []*domain.ClubMembership
}

func (m *mockMembershipRepo) Create(ctx context.Context, ms *domain.ClubMembership) error {
	ms.ID = "m-created"
	m.created = append(m.created, ms)
	return nil
}

func (m *mockMembershipRepo) GetActiveByDependantAndClub(ctx context.Context, dependantID, clubID string) (*domain.ClubMembership, error) {
	ms, ok := m.active[dependantID+":"+clubID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ms, nil
}

func (m *mockMembershipRepo) ListActiveByClubID(ctx context.Context, clubID string) ([]*domain.ClubMembership, error) {
	return nil, nil
}

func (m *mockMembershipRepo) Update(ctx context.Context, ms *domain.ClubMembership) error {
	m.updated = append(m.updated, ms)
	return nil
}

type mockTournamentRepo struct {
	tournaments map[string]*domain.Tournament
}

func (m *mockTournamentRepo) Create(ctx context.Context, t *domain.Tournament) error { return nil }

func (m *mockTournamentRepo) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	t, ok := m.tournaments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockTournamentRepo) List(ctx context.Context) ([]*domain.Tournament, error) {
	return nil, nil
}

type mockRegistrationRepo struct {
	regs     map[string]*domain.Registration
	byKey    map[string]*domain.Registration // tournamentID:competitorID
	created  []*domain.Registration
	versions []int // expectedVersion values passed to UpdateVersioned
	stale    bool
}

func (m *mockRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	reg.ID = "reg-created"
	m.created = append(m.created, reg)
	return nil
}

func (m *mockRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	r, ok := m.regs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockRegistrationRepo) GetByTournamentAndCompetitor(ctx context.Context, tournamentID, competitorID string) (*domain.Registration, error) {
	r, ok := m.byKey[tournamentID+":"+competitorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockRegistrationRepo) UpdateVersioned(ctx context.Context, reg *domain.Registration, expectedVersion int) error {
	m.versions = append(m.versions, expectedVersion)
	if m.stale {
		return domain.ErrConflict
	}
	reg.Version = expectedVersion + 1
	return nil
}

type mockSyncRepo struct {
	byReg     map[string]*domain.RegistrationSync
	created   []*domain.RegistrationSync
	createErr error
	missFirst bool // first lookup misses, to model a racing insert
}

func (m *mockSyncRepo) Create(ctx context.Context, s *domain.RegistrationSync) error {
	if m.createErr != nil {
		return m.createErr
	}
	s.ID = "sync-created"
	m.created = append(m.created, s)
	return nil
}

func (m *mockSyncRepo) GetByRegistrationID(ctx context.Context, registrationID string) (*domain.RegistrationSync, error) {
	if m.missFirst {
		m.missFirst = false
		return nil, domain.ErrNotFound
	}
	s, ok := m.byReg[registrationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type mockTransactionRepo struct {
	byGateway map[string]*domain.Transaction
	created   []*domain.Transaction
	updated   []*domain.Transaction
}

func (m *mockTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	t.ID = "tx-created"
	m.created = append(m.created, t)
	return nil
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (m *mockTransactionRepo) GetByGatewayID(ctx context.Context, gatewayID string) (*domain.Transaction, error) {
	t, ok := m.byGateway[gatewayID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	m.updated = append(m.updated, t)
	return nil
}

// mockPublisher records published events. onPublish, when set, runs before the
// event is recorded so tests can observe state at publish time.
type mockPublisher struct {
	events    []domain.Event
	err       error
	onPublish func(e domain.Event)
}

func (m *mockPublisher) Publish(ctx context.Context, e domain.Event) error {
	if m.onPublish != nil {
		m.onPublish(e)
	}
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

type sentMail struct {
	to      string
	subject string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(to, subject, html, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

type mockTokenService struct {
	lastRoles     []string
	refreshUserID string
	err           error
}

func (m *mockTokenService) IssuePair(userID, email string, roles []string) (*domain.TokenPair, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastRoles = roles
	return &domain.TokenPair{AccessToken: "access-" + userID, RefreshToken: "refresh-" + userID}, nil
}

func (m *mockTokenService) VerifyAccess(token string) (*domain.AccessClaims, error) {
	return nil, domain.ErrUnauthorized
}

func (m *mockTokenService) VerifyRefresh(token string) (string, error) {
	if m.refreshUserID == "" {
		return "", domain.ErrUnauthorized
	}
	return m.refreshUserID, nil
}

type mockHasher struct{}

func (mockHasher) GenerateSalt() (string, error) { return "salt", nil }

func (mockHasher) Hash(salt, password string) (string, error) { return salt + ":" + password, nil }

func (mockHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return domain.ErrUnauthorized
	}
	return nil
}

type mockIDGen struct {
	next string
}

func (m *mockIDGen) Generate() string {
	if m.next == "" {
		return "generated-id"
	}
	return m.next
}
