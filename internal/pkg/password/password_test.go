package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("wrong password", hash))
	assert.False(t, Verify("", hash))
}

func TestHash_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := Hash("samepassword")
	require.NoError(t, err)
	h2, err := Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	t1, err := NewResetToken()
	require.NoError(t, err)
	t2, err := NewResetToken()
	require.NoError(t, err)

	// 20 random bytes, hex encoded
	assert.Len(t, t1, 40)
	assert.NotEqual(t, t1, t2)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.Error(t, ValidatePassword(""))

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidatePassword(string(long)))
}
