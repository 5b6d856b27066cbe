package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("s3cure-pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cure-pass", hash)

	assert.NoError(t, CompareHash(hash, "s3cure-pass"))
	assert.Error(t, CompareHash(hash, "wrong-pass"))
}
