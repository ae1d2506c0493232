package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/internal/models"
	"github.com/reelhub/reelhub/internal/repository"
)

// callLog records collaborator calls in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeVerificationTokens struct {
	log       *callLog
	byToken   map[string]*models.VerificationToken
	findErr   error
	deleteErr error
}

func newFakeVerificationTokens(log *callLog, tokens ...*models.VerificationToken) *fakeVerificationTokens {
	store := &fakeVerificationTokens{log: log, byToken: map[string]*models.VerificationToken{}}
	for _, token := range tokens {
		store.byToken[token.Token] = token
	}
	return store
}

func (f *fakeVerificationTokens) FindVerificationTokenByToken(_ context.Context, token string) (*models.VerificationToken, error) {
	f.log.add("tokens.find(%s)", token)
	if f.findErr != nil {
		return nil, f.findErr
	}
	record, ok := f.byToken[token]
	if !ok {
		return nil, fmt.Errorf("find: %w", repository.ErrNotFound)
	}
	cpy := *record
	return &cpy, nil
}

func (f *fakeVerificationTokens) DeleteVerificationTokensByEmail(_ context.Context, email string) error {
	f.log.add("tokens.delete_by_email(%s)", email)
	for key, record := range f.byToken {
		if record.Email == email {
			delete(f.byToken, key)
		}
	}
	return nil
}

func (f *fakeVerificationTokens) CreateVerificationToken(_ context.Context, token *models.VerificationToken) error {
	f.log.add("tokens.create(%s)", token.Email)
	if token.ID == "" {
		token.ID = "vt-" + token.Token
	}
	cpy := *token
	f.byToken[token.Token] = &cpy
	return nil
}

func (f *fakeVerificationTokens) DeleteVerificationToken(_ context.Context, id string) error {
	f.log.add("tokens.delete(%s)", id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for key, record := range f.byToken {
		if record.ID == id {
			delete(f.byToken, key)
		}
	}
	return nil
}

type fakeResetTokens struct {
	log     *callLog
	byToken map[string]*models.PasswordResetToken
}

func newFakeResetTokens(log *callLog, tokens ...*models.PasswordResetToken) *fakeResetTokens {
	store := &fakeResetTokens{log: log, byToken: map[string]*models.PasswordResetToken{}}
	for _, token := range tokens {
		store.byToken[token.Token] = token
	}
	return store
}

func (f *fakeResetTokens) FindPasswordResetTokenByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	f.log.add("reset_tokens.find(%s)", token)
	record, ok := f.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cpy := *record
	return &cpy, nil
}

func (f *fakeResetTokens) DeletePasswordResetTokensByEmail(_ context.Context, email string) error {
	f.log.add("reset_tokens.delete_by_email(%s)", email)
	for key, record := range f.byToken {
		if record.Email == email {
			delete(f.byToken, key)
		}
	}
	return nil
}

func (f *fakeResetTokens) CreatePasswordResetToken(_ context.Context, token *models.PasswordResetToken) error {
	f.log.add("reset_tokens.create(%s)", token.Email)
	if token.ID == "" {
		token.ID = "rt-" + token.Token
	}
	cpy := *token
	f.byToken[token.Token] = &cpy
	return nil
}

func (f *fakeResetTokens) DeletePasswordResetToken(_ context.Context, id string) error {
	f.log.add("reset_tokens.delete(%s)", id)
	for key, record := range f.byToken {
		if record.ID == id {
			delete(f.byToken, key)
		}
	}
	return nil
}

type fakeAccounts struct {
	log       *callLog
	byEmail   map[string]*models.Account
	updates   map[string][]repository.AccountUpdate
	findErr   error
	updateErr error
	createErr error
}

func newFakeAccounts(log *callLog, accounts ...*models.Account) *fakeAccounts {
	store := &fakeAccounts{
		log:     log,
		byEmail: map[string]*models.Account{},
		updates: map[string][]repository.AccountUpdate{},
	}
	for _, account := range accounts {
		store.byEmail[account.Email] = account
	}
	return store
}

func (f *fakeAccounts) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	f.log.add("accounts.find(%s)", email)
	if f.findErr != nil {
		return nil, f.findErr
	}
	account, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("find: %w", repository.ErrNotFound)
	}
	cpy := *account
	return &cpy, nil
}

func (f *fakeAccounts) FindAccountByID(_ context.Context, id string) (*models.Account, error) {
	f.log.add("accounts.find_by_id(%s)", id)
	for _, account := range f.byEmail {
		if account.ID == id {
			cpy := *account
			return &cpy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccounts) CreateAccount(_ context.Context, account *models.Account) error {
	f.log.add("accounts.create(%s)", account.Email)
	if f.createErr != nil {
		return f.createErr
	}
	if account.ID == "" {
		account.ID = "acc-" + account.Email
	}
	cpy := *account
	f.byEmail[account.Email] = &cpy
	return nil
}

func (f *fakeAccounts) UpdateAccount(_ context.Context, id string, update repository.AccountUpdate) error {
	f.log.add("accounts.update(%s)", id)
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[id] = append(f.updates[id], update)
	for _, account := range f.byEmail {
		if account.ID != id {
			continue
		}
		if update.EmailVerified != nil {
			verified := *update.EmailVerified
			account.EmailVerified = &verified
		}
		if update.Password != nil {
			account.Password = *update.Password
		}
	}
	return nil
}

type fakeIssuer struct {
	log *callLog
	err error
}

func (f *fakeIssuer) IssuePasswordResetToken(_ context.Context, email string) (*models.PasswordResetToken, error) {
	f.log.add("issuer.reset(%s)", email)
	if f.err != nil {
		return nil, f.err
	}
	return &models.PasswordResetToken{ID: "rt-1", Email: email, Token: "reset-token"}, nil
}

func (f *fakeIssuer) IssueVerificationToken(_ context.Context, email string) (*models.VerificationToken, error) {
	f.log.add("issuer.verification(%s)", email)
	if f.err != nil {
		return nil, f.err
	}
	return &models.VerificationToken{ID: "vt-1", Email: email, Token: "verify-token"}, nil
}

type fakeNotifier struct {
	log *callLog
	err error
}

func (f *fakeNotifier) SendResetPasswordEmail(_ context.Context, email, token string) error {
	f.log.add("notifier.reset(%s,%s)", email, token)
	return f.err
}

func (f *fakeNotifier) SendVerificationEmail(_ context.Context, email, token string) error {
	f.log.add("notifier.verification(%s,%s)", email, token)
	return f.err
}

type fakeRecorder struct {
	events []Event
	err    error
}

func (f *fakeRecorder) Record(_ context.Context, event Event) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakeRecorder) names() []string {
	names := make([]string, 0, len(f.events))
	for _, event := range f.events {
		names = append(names, event.Name)
	}
	return names
}

type fakeAccessTokens struct {
	issued []auth.AccessTokenInput
}

func (f *fakeAccessTokens) IssueAccessToken(input auth.AccessTokenInput) (auth.AccessToken, error) {
	f.issued = append(f.issued, input)
	return auth.AccessToken{Token: "jwt-" + input.AccountID}, nil
}
