package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrFeatureNotFound, "no such feature")
	assert.Equal(t, "[FEATURE_NOT_FOUND] no such feature", err.Error())
	assert.Equal(t, ErrFeatureNotFound, err.Code)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrFeatureNotFound, "feature %q not in table", "vim")
	assert.Equal(t, `[FEATURE_NOT_FOUND] feature "vim" not in table`, err.Error())
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("disk full")
	err := Wrap(inner, ErrFileWrite, "writing registry")

	require.NotNil(t, err)
	assert.Equal(t, "[FILE_WRITE] writing registry: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	assert.Nil(t, Wrap(nil, ErrFileWrite, "noop"))
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrArchiveMissing, "archive not found at path")
	wrapped := Wrap(err, ErrProvisionFailed, "provisioning feature")

	assert.True(t, IsErrorCode(err, ErrArchiveMissing))
	assert.False(t, IsErrorCode(err, ErrDownloadFailed))
	// outermost code wins
	assert.True(t, IsErrorCode(wrapped, ErrProvisionFailed))
	assert.False(t, IsErrorCode(stderrors.New("plain"), ErrArchiveMissing))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCacheAccess, GetCode(New(ErrCacheAccess, "x")))
	assert.Equal(t, ErrUnknown, GetCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCommandFailed, "package manager failed").
		WithDetail("command", "apt-get install").
		WithDetail("exit", 100)

	assert.Equal(t, "apt-get install", err.Details["command"])
	assert.Equal(t, 100, err.Details["exit"])
}

func TestIsAny(t *testing.T) {
	err := New(ErrRegistryWrite, "append failed")
	assert.True(t, IsAny(err, ErrRegistryRead, ErrRegistryWrite))
	assert.False(t, IsAny(err, ErrRegistryRead, ErrFileAccess))
}
