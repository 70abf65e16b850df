package otp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	redisclient "github.com/angelmondragon/labstock-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (f *fakeKV) GetDel(ctx context.Context, key string) (string, error) {
	v, err := f.Get(ctx, key)
	delete(f.values, key)
	return v, err
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeKV) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	var n int64
	if v, ok := f.values[key]; ok {
		n = int64(len(v))
	}
	n++
	f.values[key] = strings.Repeat("x", int(n))
	f.ttls[key] = ttl
	return n, nil
}

func (f *fakeKV) OTPKey(purpose, mail string) string { return "otp:" + purpose + ":" + mail }
func (f *fakeKV) VerifiedMailKey(purpose, mail string) string {
	return "verified:" + purpose + ":" + mail
}
func (f *fakeKV) OTPAttemptsKey(purpose, mail string) string {
	return "attempts:" + purpose + ":" + mail
}

func testConfig() config.OTPConfig {
	return config.OTPConfig{TTL: 5 * time.Minute, VerifiedTTL: 15 * time.Minute, Digits: 6}
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore(nil, testConfig())
	require.Error(t, err)

	cfg := testConfig()
	cfg.TTL = 0
	_, err = NewStore(newFakeKV(), cfg)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewStore(kv, testConfig())
	require.NoError(t, err)

	code, err := store.Issue(ctx, PurposeSignup, "a@rathinam.in")
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.Equal(t, 5*time.Minute, kv.ttls["otp:signup:a@rathinam.in"])

	require.NoError(t, store.Verify(ctx, PurposeSignup, "a@rathinam.in", " "+code+" "))
	_, pending := kv.values["otp:signup:a@rathinam.in"]
	assert.False(t, pending)
	assert.Equal(t, 15*time.Minute, kv.ttls["verified:signup:a@rathinam.in"])

	ok, err := store.IsVerified(ctx, PurposeSignup, "a@rathinam.in")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.IsVerified(ctx, PurposeReset, "a@rathinam.in")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.ConsumeVerified(ctx, PurposeSignup, "a@rathinam.in")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ConsumeVerified(ctx, PurposeSignup, "a@rathinam.in")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMissingCode(t *testing.T) {
	store, err := NewStore(newFakeKV(), testConfig())
	require.NoError(t, err)

	err = store.Verify(context.Background(), PurposeSignup, "a@rathinam.in", "123456")
	require.ErrorIs(t, err, ErrCodeNotFound)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestVerifyWrongCodeKeepsPendingUntilLimit(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewStore(kv, testConfig())
	require.NoError(t, err)

	code, err := store.Issue(ctx, PurposeReset, "b@rathinam.in")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < maxAttempts-1; i++ {
		require.ErrorIs(t, store.Verify(ctx, PurposeReset, "b@rathinam.in", wrong), ErrInvalidCode)
	}
	_, pending := kv.values["otp:reset:b@rathinam.in"]
	require.True(t, pending)

	require.ErrorIs(t, store.Verify(ctx, PurposeReset, "b@rathinam.in", wrong), ErrInvalidCode)
	require.ErrorIs(t, store.Verify(ctx, PurposeReset, "b@rathinam.in", code), ErrCodeNotFound)
}

func TestIssueResetsAttempts(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewStore(kv, testConfig())
	require.NoError(t, err)

	_, err = store.Issue(ctx, PurposeSignup, "c@rathinam.in")
	require.NoError(t, err)
	kv.values["attempts:signup:c@rathinam.in"] = "xxx"

	_, err = store.Issue(ctx, PurposeSignup, "c@rathinam.in")
	require.NoError(t, err)
	_, ok := kv.values["attempts:signup:c@rathinam.in"]
	assert.False(t, ok)
}

func TestIssueStoreFailure(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("redis down")
	store, err := NewStore(kv, testConfig())
	require.NoError(t, err)

	_, err = store.Issue(context.Background(), PurposeSignup, "d@rathinam.in")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestCodeMessage(t *testing.T) {
	msg := CodeMessage("a@rathinam.in", "123456", PurposeSignup, 5*time.Minute)
	assert.Equal(t, "a@rathinam.in", msg.To)
	assert.Equal(t, "Email Verification OTP", msg.Subject)
	assert.Contains(t, msg.Text, "123456")
	assert.Contains(t, msg.Text, "5 minutes")
	assert.Contains(t, msg.HTML, "123456")

	reset := CodeMessage("a@rathinam.in", "654321", PurposeReset, 30*time.Second)
	assert.Equal(t, "Password Reset OTP", reset.Subject)
	assert.Contains(t, reset.Text, "1 minute.")
}
