package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash_Recomputable(t *testing.T) {
	assert.Equal(t, ContentHash("Hello world"), ContentHash("Hello world"))
	assert.NotEqual(t, ContentHash("Hello world"), ContentHash("Hello world!"))
	assert.NotEqual(t, ContentHash(""), ContentHash(" "))
}

func TestLangPair(t *testing.T) {
	assert.True(t, LangPair{}.IsZero())
	assert.False(t, LangPair{Source: "en", Target: "nl"}.IsZero())
	assert.Equal(t, "en->nl", LangPair{Source: "en", Target: "nl"}.String())
}

func TestStoreIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StoreIOError{Store: "project", Err: cause}

	assert.Contains(t, err.Error(), "project")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsStoreIO(err))
	assert.True(t, IsStoreIO(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsStoreIO(ErrNotFound))
	assert.False(t, IsStoreIO(nil))
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrInvalidInput, ErrUnknownStore, ErrSchemaVersion}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
