package login

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnersswap/swap-web/internal/authclient"
)

// fakeAuth is a test double implementing Authenticator.
type fakeAuth struct {
	calls atomic.Int32
	login func(ctx context.Context, creds authclient.Credentials) (*authclient.LoginResult, error)
}

func (f *fakeAuth) Login(ctx context.Context, creds authclient.Credentials) (*authclient.LoginResult, error) {
	f.calls.Add(1)
	return f.login(ctx, creds)
}

var validForm = Form{Email: "ana@example.com", Password: "12345678", FormID: "form-1"}

func TestSubmit_InvalidMakesNoCall(t *testing.T) {
	auth := &fakeAuth{login: func(context.Context, authclient.Credentials) (*authclient.LoginResult, error) {
		t.Fatal("authentication service must not be called")
		return nil, nil
	}}
	out := NewFlow(auth).Submit(context.Background(), Form{Email: "ana@example.com", Password: "1234567"})

	assert.False(t, out.OK())
	assert.Contains(t, out.FieldErrors, "password")
	assert.Empty(t, out.Errors)
	assert.EqualValues(t, 0, auth.calls.Load())
}

func TestSubmit_Success(t *testing.T) {
	auth := &fakeAuth{login: func(_ context.Context, creds authclient.Credentials) (*authclient.LoginResult, error) {
		assert.Equal(t, "ana@example.com", creds.Email)
		assert.Nil(t, creds.Remember)
		return &authclient.LoginResult{Token: "tok", User: authclient.User{ID: "1"}}, nil
	}}
	out := NewFlow(auth).Submit(context.Background(), validForm)

	require.True(t, out.OK())
	assert.Equal(t, "tok", out.Result.Token)
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.FieldErrors)
	assert.EqualValues(t, 1, auth.calls.Load())
}

func TestSubmit_RememberForwarded(t *testing.T) {
	auth := &fakeAuth{login: func(_ context.Context, creds authclient.Credentials) (*authclient.LoginResult, error) {
		require.NotNil(t, creds.Remember)
		assert.True(t, *creds.Remember)
		return &authclient.LoginResult{Token: "tok"}, nil
	}}
	f := validForm
	f.Remember = true
	assert.True(t, NewFlow(auth).Submit(context.Background(), f).OK())
}

func TestSubmit_422Flattened(t *testing.T) {
	auth := &fakeAuth{login: func(context.Context, authclient.Credentials) (*authclient.LoginResult, error) {
		return nil, &authclient.ValidationError{Fields: []authclient.FieldError{
			{Field: "email", Messages: []string{"already taken"}},
			{Field: "password", Messages: []string{"too weak"}},
		}}
	}}
	out := NewFlow(auth).Submit(context.Background(), validForm)
	assert.Equal(t, []string{"already taken", "too weak"}, out.Errors)
}

func TestSubmit_422MarkupStripped(t *testing.T) {
	auth := &fakeAuth{login: func(context.Context, authclient.Credentials) (*authclient.LoginResult, error) {
		return nil, &authclient.ValidationError{Fields: []authclient.FieldError{
			{Field: "email", Messages: []string{"<b>can't</b> use this", "<script>x</script>", "  "}},
		}}
	}}
	out := NewFlow(auth).Submit(context.Background(), validForm)
	assert.Equal(t, []string{"can't use this"}, out.Errors)
}

func TestSubmit_422WithoutMessagesIsGeneric(t *testing.T) {
	auth := &fakeAuth{login: func(context.Context, authclient.Credentials) (*authclient.LoginResult, error) {
		return nil, &authclient.ValidationError{}
	}}
	out := NewFlow(auth).Submit(context.Background(), validForm)
	assert.Equal(t, []string{GenericError}, out.Errors)
}

func TestSubmit_OtherFailuresAreGeneric(t *testing.T) {
	for name, err := range map[string]error{
		"network":   errors.New("dial tcp: connection refused"),
		"status":    &authclient.StatusError{StatusCode: 503},
		"malformed": authclient.ErrMalformedResponse,
		"timeout":   context.DeadlineExceeded,
	} {
		t.Run(name, func(t *testing.T) {
			auth := &fakeAuth{login: func(context.Context, authclient.Credentials) (*authclient.LoginResult, error) {
				return nil, err
			}}
			out := NewFlow(auth).Submit(context.Background(), validForm)
			assert.Equal(t, []string{"Something went wrong"}, out.Errors)
			assert.False(t, out.OK())
		})
	}
}

func TestSubmit_DuplicateInFlightSharesOneCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	auth := &fakeAuth{login: func(context.Context, authclient.Credentials) (*authclient.LoginResult, error) {
		once.Do(func() { close(started) })
		<-release
		return &authclient.LoginResult{Token: "tok"}, nil
	}}
	fl := NewFlow(auth)

	var wg sync.WaitGroup
	results := make([]Outcome, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = fl.Submit(context.Background(), validForm)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = fl.Submit(context.Background(), validForm)
	}()
	// Give the duplicate time to join the in-flight call before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, auth.calls.Load())
	assert.True(t, results[0].OK())
	assert.True(t, results[1].OK())
}

func TestSubmit_CancelledCallerDoesNotFailJoinedCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	auth := &fakeAuth{login: func(ctx context.Context, _ authclient.Credentials) (*authclient.LoginResult, error) {
		once.Do(func() { close(started) })
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return &authclient.LoginResult{Token: "tok"}, nil
		}
	}}
	fl := NewFlow(auth)

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	first := make(chan Outcome, 1)
	go func() { first <- fl.Submit(ctx1, validForm) }()
	<-started

	second := make(chan Outcome, 1)
	go func() { second <- fl.Submit(context.Background(), validForm) }()
	time.Sleep(50 * time.Millisecond)

	cancel1()
	select {
	case out := <-first:
		assert.False(t, out.OK())
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(release)
	select {
	case out := <-second:
		assert.True(t, out.OK(), "joined caller got %v", out.Errors)
	case <-time.After(2 * time.Second):
		t.Fatal("joined caller never finished")
	}
	assert.EqualValues(t, 1, auth.calls.Load())
}

func TestInflightKey(t *testing.T) {
	a := inflightKey(validForm)
	assert.Equal(t, a, inflightKey(validForm))
	assert.NotContains(t, a, validForm.Password)

	other := validForm
	other.Password = "87654321"
	assert.NotEqual(t, a, inflightKey(other))

	anon := validForm
	anon.FormID = ""
	assert.NotEqual(t, inflightKey(anon), inflightKey(anon), "forms without an id never share a call")
}
