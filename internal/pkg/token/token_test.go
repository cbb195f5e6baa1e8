package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdirect/backend/internal/core/domain/entity"
)

func TestIssueVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)
	p := entity.Principal{ID: "user-1", Role: entity.RoleFarmer}

	raw, err := m.Issue(p)
	require.NoError(t, err)

	got, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestVerifyRejects(t *testing.T) {
	m := NewManager("secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		raw, err := other.Issue(entity.Principal{ID: "user-1", Role: entity.RoleConsumer})
		require.NoError(t, err)

		_, err = m.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := NewManager("secret", -time.Minute)
		raw, err := short.Issue(entity.Principal{ID: "user-1", Role: entity.RoleConsumer})
		require.NoError(t, err)

		_, err = short.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
