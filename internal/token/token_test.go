package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return NewCodec("test-secret", time.Hour, 24*time.Hour)
}

func TestIssueAndValidate(t *testing.T) {
	codec := newTestCodec()
	userID := uuid.New()
	tenantID := uuid.New()

	raw, err := codec.Issue(userID, tenantID, 3, KindAccess)
	require.NoError(t, err)

	claims, err := codec.Validate(raw, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
}

func TestIssuePair(t *testing.T) {
	codec := newTestCodec()
	userID := uuid.New()
	tenantID := uuid.New()

	access, refresh, err := codec.IssuePair(userID, tenantID, 1)
	require.NoError(t, err)

	accessClaims, err := codec.Validate(access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, KindAccess, accessClaims.Kind)

	refreshClaims, err := codec.Validate(refresh, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, refreshClaims.Kind)
}

func TestValidateKindMismatch(t *testing.T) {
	codec := newTestCodec()

	refresh, err := codec.Issue(uuid.New(), uuid.New(), 1, KindRefresh)
	require.NoError(t, err)

	_, err = codec.Validate(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	codec := NewCodec("test-secret", -time.Minute, -time.Minute)

	raw, err := codec.Issue(uuid.New(), uuid.New(), 1, KindAccess)
	require.NoError(t, err)

	_, err = codec.Validate(raw, KindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	codec := newTestCodec()
	other := NewCodec("other-secret", time.Hour, time.Hour)

	raw, err := codec.Issue(uuid.New(), uuid.New(), 1, KindAccess)
	require.NoError(t, err)

	_, err = other.Validate(raw, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	codec := newTestCodec()

	_, err := codec.Validate("not-a-token", KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
