package facade_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tenantauth/pkg/appname"
	"github.com/dmitrymomot/tenantauth/pkg/cookie"
	"github.com/dmitrymomot/tenantauth/pkg/directory"
	"github.com/dmitrymomot/tenantauth/pkg/facade"
	"github.com/dmitrymomot/tenantauth/pkg/ticket"
)

// recordingStore wraps a MemoryStore and records the application name
// observed during each directory call, to assert the scope is published
// before the directory is consulted.
type recordingStore struct {
	*directory.MemoryStore
	observed []string
}

func (s *recordingStore) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	s.observed = append(s.observed, s.ApplicationName(ctx))
	return s.MemoryStore.ValidateCredentials(ctx, username, password)
}

func (s *recordingStore) GetUser(ctx context.Context, username string) (*directory.User, error) {
	s.observed = append(s.observed, s.ApplicationName(ctx))
	return s.MemoryStore.GetUser(ctx, username)
}

// plainStore implements Directory without the ApplicationScoped accessor.
type plainStore struct {
	directory.Directory
}

func newTestFacade(t *testing.T, dir directory.Directory) (*facade.Facade, *ticket.Codec) {
	t.Helper()

	cookies, err := cookie.New([]string{strings.Repeat("s", 32)})
	require.NoError(t, err)

	codec, err := ticket.NewCodec(cookies)
	require.NoError(t, err)

	issuer, err := ticket.NewIssuer(codec, cookies)
	require.NoError(t, err)

	f, err := facade.New(dir, issuer)
	require.NoError(t, err)

	return f, codec
}

func register(t *testing.T, store *directory.MemoryStore, application, username, password string) {
	t.Helper()

	ctx := appname.WithApplicationName(context.Background(), application)
	_, err := store.Register(ctx, username, "", password)
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects directory that is not application scoped", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore()
		cookies, err := cookie.New([]string{strings.Repeat("s", 32)})
		require.NoError(t, err)
		codec, err := ticket.NewCodec(cookies)
		require.NoError(t, err)
		issuer, err := ticket.NewIssuer(codec, cookies)
		require.NoError(t, err)

		_, err = facade.New(plainStore{Directory: store}, issuer)
		assert.ErrorIs(t, err, facade.ErrNotApplicationScoped)
	})

	t.Run("rejects missing collaborators", func(t *testing.T) {
		t.Parallel()

		_, err := facade.New(nil, nil)
		assert.ErrorIs(t, err, facade.ErrNoDirectory)

		_, err = facade.New(directory.NewMemoryStore(), nil)
		assert.ErrorIs(t, err, facade.ErrNoIssuer)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("publishes application before the directory call and reissues credential", func(t *testing.T) {
		t.Parallel()

		store := &recordingStore{MemoryStore: directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))}
		register(t, store.MemoryStore, "tenantX", "bob", "secret")

		f, codec := newTestFacade(t, store)

		rec := httptest.NewRecorder()
		result, err := f.Login(context.Background(), rec, `tenantX\bob`, "secret", false)
		require.NoError(t, err)

		// Every directory call observed the published application.
		require.NotEmpty(t, store.observed)
		for _, app := range store.observed {
			assert.Equal(t, "tenantX", app)
		}

		// The UI-visible username is the composite form as typed.
		assert.Equal(t, `tenantX\bob`, result.Username)
		require.NotNil(t, result.User)
		assert.Equal(t, "bob", result.User.Username)

		// The outbound credential decodes to the application.
		require.NotNil(t, result.Credential)
		decoded, err := codec.Decode(result.Credential.Value)
		require.NoError(t, err)
		assert.Equal(t, "bob", decoded.Name)
		assert.Equal(t, "tenantX", decoded.ApplicationName())

		// And it was attached to the response.
		require.Len(t, rec.Result().Cookies(), 1)
		assert.Equal(t, result.Credential.Value, rec.Result().Cookies()[0].Value)
	})

	t.Run("wrong password fails without issuing a credential", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
		register(t, store, "tenantX", "bob", "secret")

		f, _ := newTestFacade(t, store)

		rec := httptest.NewRecorder()
		_, err := f.Login(context.Background(), rec, `tenantX\bob`, "wrong", false)
		assert.ErrorIs(t, err, directory.ErrInvalidCredentials)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("wrong application fails the same way", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
		register(t, store, "tenantX", "bob", "secret")

		f, _ := newTestFacade(t, store)

		rec := httptest.NewRecorder()
		_, err := f.Login(context.Background(), rec, `tenantY\bob`, "secret", false)
		assert.ErrorIs(t, err, directory.ErrInvalidCredentials)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("bare username logs in under the default application", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
		register(t, store, "", "alice", "secret")

		f, codec := newTestFacade(t, store)

		rec := httptest.NewRecorder()
		result, err := f.Login(context.Background(), rec, "alice", "secret", false)
		require.NoError(t, err)
		assert.Equal(t, "alice", result.Username)

		decoded, err := codec.Decode(result.Credential.Value)
		require.NoError(t, err)
		assert.Empty(t, decoded.ApplicationName())
	})

	t.Run("remember me issues a persistent credential", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
		register(t, store, "tenantX", "bob", "secret")

		f, codec := newTestFacade(t, store)

		rec := httptest.NewRecorder()
		result, err := f.Login(context.Background(), rec, `tenantX\bob`, "secret", true)
		require.NoError(t, err)
		assert.Greater(t, result.Credential.MaxAge, 0)

		decoded, err := codec.Decode(result.Credential.Value)
		require.NoError(t, err)
		assert.True(t, decoded.Persistent)
	})

	t.Run("requires a response writer", func(t *testing.T) {
		t.Parallel()

		f, _ := newTestFacade(t, directory.NewMemoryStore())

		_, err := f.Login(context.Background(), nil, `tenantX\bob`, "secret", false)
		assert.ErrorIs(t, err, facade.ErrNoResponseWriter)
	})
}

// missingUserStore validates any credentials but never finds the user,
// simulating the scoped-lookup miss after a successful password check.
type missingUserStore struct {
	*directory.MemoryStore
}

func (s missingUserStore) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	return true, nil
}

func (s missingUserStore) GetUser(ctx context.Context, username string) (*directory.User, error) {
	return nil, directory.ErrUserNotFound
}

func TestLoginScopedLookupMiss(t *testing.T) {
	t.Parallel()

	f, codec := newTestFacade(t, missingUserStore{MemoryStore: directory.NewMemoryStore()})

	rec := httptest.NewRecorder()
	result, err := f.Login(context.Background(), rec, `tenantX\bob`, "secret", false)
	require.NoError(t, err)

	// The login still succeeds, but the credential is the unscoped baseline.
	assert.Nil(t, result.User)
	require.NotNil(t, result.Credential)

	decoded, err := codec.Decode(result.Credential.Value)
	require.NoError(t, err)
	assert.Empty(t, decoded.UserData)
	assert.Empty(t, decoded.ApplicationName())
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("reissues credential with the application from the request scope", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
		register(t, store, "tenantY", "carol", "old-secret")

		f, codec := newTestFacade(t, store)

		// The request is already scoped by the resolver middleware; the form
		// submits only the bare username.
		ctx := appname.WithApplicationName(context.Background(), "tenantY")

		rec := httptest.NewRecorder()
		cred, err := f.ChangePassword(ctx, rec, "carol", "old-secret", "new-secret")
		require.NoError(t, err)

		decoded, err := codec.Decode(cred.Value)
		require.NoError(t, err)
		assert.Equal(t, "tenantY", decoded.ApplicationName())
		assert.True(t, decoded.Persistent)

		ok, err := store.ValidateCredentials(ctx, "carol", "new-secret")
		require.NoError(t, err)
		assert.True(t, ok)

		require.Len(t, rec.Result().Cookies(), 1)
	})

	t.Run("wrong old password leaves the credential alone", func(t *testing.T) {
		t.Parallel()

		store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
		register(t, store, "tenantY", "carol", "old-secret")

		f, _ := newTestFacade(t, store)
		ctx := appname.WithApplicationName(context.Background(), "tenantY")

		rec := httptest.NewRecorder()
		_, err := f.ChangePassword(ctx, rec, "carol", "wrong", "new-secret")
		assert.ErrorIs(t, err, directory.ErrInvalidCredentials)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestVerifyUser(t *testing.T) {
	t.Parallel()

	store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
	register(t, store, "acme", "dave", "secret")

	f, _ := newTestFacade(t, store)

	t.Run("finds the user under the split application", func(t *testing.T) {
		t.Parallel()

		user, err := f.VerifyUser(context.Background(), `acme\dave`)
		require.NoError(t, err)
		assert.Equal(t, "dave", user.Username)
		assert.Equal(t, "acme", user.Application)
	})

	t.Run("misses under another application", func(t *testing.T) {
		t.Parallel()

		_, err := f.VerifyUser(context.Background(), `globex\dave`)
		assert.ErrorIs(t, err, directory.ErrUserNotFound)
	})
}

// TestRequestLifecycle drives the full loop: login, then a later request
// carrying the credential is resolved by the middleware and scoped directory
// reads observe the same application.
func TestRequestLifecycle(t *testing.T) {
	t.Parallel()

	store := directory.NewMemoryStore(directory.WithBcryptCost(bcrypt.MinCost))
	register(t, store, "tenantX", "bob", "secret")

	f, _ := newTestFacade(t, store)

	// Step 1: login writes the scoped credential.
	loginRec := httptest.NewRecorder()
	_, err := f.Login(context.Background(), loginRec, `tenantX\bob`, "secret", false)
	require.NoError(t, err)
	cookies := loginRec.Result().Cookies()
	require.Len(t, cookies, 1)

	// Step 2: a subsequent request carries the credential; the middleware
	// publishes the application and the directory resolves the user.
	var lookedUp *directory.User
	handler := appname.Middleware(f.Issuer())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookedUp, err = store.GetUser(r.Context(), "bob")
	}))

	req := httptest.NewRequest("GET", "/profile", nil)
	req.AddCookie(cookies[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NoError(t, err)
	require.NotNil(t, lookedUp)
	assert.Equal(t, "tenantX", lookedUp.Application)
}
