package identity

import (
	"context"
	"testing"

	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
)

type fakeUsers struct {
	byID    map[string]*models.User
	byEmail map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*models.User{}, byEmail: map[string]string{}}
}

func (f *fakeUsers) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f.Get(ctx, id)
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, name, picture string) error {
	u, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Name = name
	u.ProfilePicture = picture
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Password = hash
	return nil
}

func newTestService() (*Service, *fakeUsers, *Observer) {
	users := newFakeUsers()
	obs := NewObserver()
	return NewService(users, "test-secret", obs), users, obs
}

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, token, err := svc.SignUp(ctx, "Ali", "a@b.com", "motdepasse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "customer", user.Role)
	assert.Equal(t, "local", user.Provider)
	assert.NotEqual(t, "motdepasse", user.Password, "le mot de passe ne doit jamais être stocké en clair")

	got, token2, err := svc.Login(ctx, "a@b.com", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token2)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ali", "a@b.com", "motdepasse")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "Autre", "a@b.com", "autre")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPasswordAndUnknownEmailSameError(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ali", "a@b.com", "motdepasse")
	require.NoError(t, err)

	_, _, errWrong := svc.Login(ctx, "a@b.com", "mauvais")
	_, _, errUnknown := svc.Login(ctx, "inconnu@b.com", "motdepasse")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestCompleteOAuthLazyCreation(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	gu := goth.User{Provider: "google", UserID: "g-123", Email: "A@B.com", Name: "Ali", AvatarURL: "http://pic"}
	user, token, err := svc.CompleteOAuth(ctx, gu)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "google", user.Provider)
	require.Len(t, users.byID, 1)

	// Deuxième login : on retrouve le même compte, pas de doublon
	again, _, err := svc.CompleteOAuth(ctx, gu)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, users.byID, 1)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, _, err := svc.SignUp(ctx, "Ali", "a@b.com", "ancien-mdp")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "mauvais", "nouveau-mdp"), ErrInvalidCredentials)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "ancien-mdp", "nouveau-mdp"))

	_, _, err = svc.Login(ctx, "a@b.com", "nouveau-mdp")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@b.com", "ancien-mdp")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestObserverReceivesSessionEvents(t *testing.T) {
	svc, _, obs := newTestService()
	ctx := context.Background()

	sub := obs.Subscribe()
	defer sub.Close()

	user, _, err := svc.SignUp(ctx, "Ali", "a@b.com", "motdepasse")
	require.NoError(t, err)

	ev := <-sub.Events()
	assert.Equal(t, EventSignedIn, ev.Kind)
	assert.Equal(t, user.ID, ev.UserID)
	require.NotNil(t, ev.User)

	svc.SignOut(user.ID)
	ev = <-sub.Events()
	assert.Equal(t, EventSignedOut, ev.Kind)
	assert.Nil(t, ev.User)
}

func TestClosedSubscriptionStopsReceiving(t *testing.T) {
	obs := NewObserver()
	sub := obs.Subscribe()
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close(), "Close doit être idempotent")

	// Diffuser après fermeture ne doit pas paniquer
	obs.notifySignOut("u1")

	_, open := <-sub.Events()
	assert.False(t, open)
}
