package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"passage/internal/domain/auth"

	"golang.org/x/oauth2"
)

// stubProvider implements auth.IdentityProvider for testing
type stubProvider struct {
	authURL     string
	token       *oauth2.Token
	exchangeErr error
	claims      *auth.IdentityClaims
	verifyErr   error

	exchangeCalls int
	verifyCalls   int
}

func (p *stubProvider) AuthURL(state string) string {
	return p.authURL + "?state=" + state
}

func (p *stubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	p.exchangeCalls++
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.token, nil
}

func (p *stubProvider) Verify(ctx context.Context, token *oauth2.Token) (*auth.IdentityClaims, error) {
	p.verifyCalls++
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	return p.claims, nil
}

// mockRepository implements auth.Repository for testing
type mockRepository struct {
	users       map[string]*auth.User // id -> user
	bySubject   map[string]*auth.User // google id -> user
	nextID      int
	upsertErr   error
	upsertCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:     make(map[string]*auth.User),
		bySubject: make(map[string]*auth.User),
	}
}

func (m *mockRepository) Upsert(ctx context.Context, claims *auth.IdentityClaims) (*auth.User, error) {
	m.upsertCalls++
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	if user, exists := m.bySubject[claims.Subject]; exists {
		user.Email = claims.Email
		user.Name = claims.Name
		user.Picture = claims.Picture
		return user, nil
	}
	m.nextID++
	user := &auth.User{
		ID:       fmt.Sprintf("u%d", m.nextID),
		GoogleID: claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
	}
	m.users[user.ID] = user
	m.bySubject[user.GoogleID] = user
	return user, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	if user, exists := m.users[id]; exists {
		return user, nil
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockRepository) GetByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	if user, exists := m.bySubject[googleID]; exists {
		return user, nil
	}
	return nil, auth.ErrUserNotFound
}

func newTestService(provider *stubProvider, repo *mockRepository) *Service {
	return NewService(provider, repo, NewTokenCodec("test-secret"))
}

func TestService_CompleteLogin_HappyPath(t *testing.T) {
	provider := &stubProvider{
		token:  &oauth2.Token{AccessToken: "access"},
		claims: &auth.IdentityClaims{Subject: "g-123", Email: "a@x.com", Name: "Ada"},
	}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	user, credential, err := service.CompleteLogin(context.Background(), "valid-code")
	if err != nil {
		t.Fatalf("CompleteLogin returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Expected user id 'u1', got '%s'", user.ID)
	}
	if user.GoogleID != "g-123" {
		t.Errorf("Expected google id 'g-123', got '%s'", user.GoogleID)
	}

	// The credential must decode back to the resolved user
	userID, email, err := NewTokenCodec("test-secret").Verify(credential)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if userID != user.ID {
		t.Errorf("Expected credential subject '%s', got '%s'", user.ID, userID)
	}
	if email != "a@x.com" {
		t.Errorf("Expected credential email 'a@x.com', got '%s'", email)
	}
}

func TestService_CompleteLogin_EmptyCode(t *testing.T) {
	provider := &stubProvider{}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	_, _, err := service.CompleteLogin(context.Background(), "")
	if !errors.Is(err, auth.ErrNoCode) {
		t.Errorf("Expected ErrNoCode, got %v", err)
	}
	if provider.exchangeCalls != 0 {
		t.Errorf("Expected no exchange call, got %d", provider.exchangeCalls)
	}
	if repo.upsertCalls != 0 {
		t.Errorf("Expected no upsert call, got %d", repo.upsertCalls)
	}
}

func TestService_CompleteLogin_ExchangeFailure(t *testing.T) {
	provider := &stubProvider{exchangeErr: errors.New("provider rejected code")}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	_, _, err := service.CompleteLogin(context.Background(), "bad-code")
	if !errors.Is(err, auth.ErrExchangeFailed) {
		t.Errorf("Expected ErrExchangeFailed, got %v", err)
	}
	if provider.verifyCalls != 0 {
		t.Errorf("Expected no verify call, got %d", provider.verifyCalls)
	}
	if repo.upsertCalls != 0 {
		t.Errorf("Expected no upsert call, got %d", repo.upsertCalls)
	}
}

func TestService_CompleteLogin_VerifyFailure(t *testing.T) {
	provider := &stubProvider{
		token:     &oauth2.Token{AccessToken: "access"},
		verifyErr: errors.New("audience mismatch"),
	}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	_, _, err := service.CompleteLogin(context.Background(), "valid-code")
	if !errors.Is(err, auth.ErrInvalidIdentity) {
		t.Errorf("Expected ErrInvalidIdentity, got %v", err)
	}
	if repo.upsertCalls != 0 {
		t.Errorf("Expected no upsert call, got %d", repo.upsertCalls)
	}
}

func TestService_CompleteLogin_EmptySubject(t *testing.T) {
	provider := &stubProvider{
		token:  &oauth2.Token{AccessToken: "access"},
		claims: &auth.IdentityClaims{Email: "a@x.com"},
	}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	_, _, err := service.CompleteLogin(context.Background(), "valid-code")
	if !errors.Is(err, auth.ErrInvalidIdentity) {
		t.Errorf("Expected ErrInvalidIdentity for empty subject, got %v", err)
	}
}

func TestService_CompleteLogin_DirectoryFailure(t *testing.T) {
	provider := &stubProvider{
		token:  &oauth2.Token{AccessToken: "access"},
		claims: &auth.IdentityClaims{Subject: "g-123", Email: "a@x.com"},
	}
	repo := newMockRepository()
	repo.upsertErr = errors.New("connection refused")
	service := newTestService(provider, repo)

	_, _, err := service.CompleteLogin(context.Background(), "valid-code")
	if !errors.Is(err, auth.ErrDirectory) {
		t.Errorf("Expected ErrDirectory, got %v", err)
	}
}

func TestService_CompleteLogin_RevisitKeepsID(t *testing.T) {
	provider := &stubProvider{
		token:  &oauth2.Token{AccessToken: "access"},
		claims: &auth.IdentityClaims{Subject: "g-123", Email: "a@x.com", Name: "Ada"},
	}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	first, _, err := service.CompleteLogin(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("First login returned error: %v", err)
	}

	provider.claims = &auth.IdentityClaims{Subject: "g-123", Email: "a@x.com", Name: "Ada Lovelace"}
	second, _, err := service.CompleteLogin(context.Background(), "code-2")
	if err != nil {
		t.Fatalf("Second login returned error: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected same user id on revisit, got '%s' and '%s'", first.ID, second.ID)
	}
	if second.Name != "Ada Lovelace" {
		t.Errorf("Expected updated name, got '%s'", second.Name)
	}
}

func TestService_Resolve(t *testing.T) {
	provider := &stubProvider{
		token:  &oauth2.Token{AccessToken: "access"},
		claims: &auth.IdentityClaims{Subject: "g-123", Email: "a@x.com"},
	}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	user, credential, err := service.CompleteLogin(context.Background(), "valid-code")
	if err != nil {
		t.Fatalf("CompleteLogin returned error: %v", err)
	}

	resolved, err := service.Resolve(context.Background(), credential)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("Expected resolved user '%s', got '%s'", user.ID, resolved.ID)
	}
}

func TestService_Resolve_DeletedUser(t *testing.T) {
	provider := &stubProvider{
		token:  &oauth2.Token{AccessToken: "access"},
		claims: &auth.IdentityClaims{Subject: "g-123", Email: "a@x.com"},
	}
	repo := newMockRepository()
	service := newTestService(provider, repo)

	user, credential, err := service.CompleteLogin(context.Background(), "valid-code")
	if err != nil {
		t.Fatalf("CompleteLogin returned error: %v", err)
	}

	// Account vanishes between issuance and use
	delete(repo.users, user.ID)
	delete(repo.bySubject, user.GoogleID)

	_, err = service.Resolve(context.Background(), credential)
	if !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestService_Resolve_BadCredential(t *testing.T) {
	service := newTestService(&stubProvider{}, newMockRepository())

	_, err := service.Resolve(context.Background(), "not-a-token")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Expected ErrTokenMalformed, got %v", err)
	}
}
