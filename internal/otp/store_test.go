package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifyConsumesCode(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	s.Put("+919876543210", "123456")

	assert.False(t, s.Verify("+919876543210", "000000"))
	assert.True(t, s.Verify("+919876543210", "123456"))
	// consumed; second attempt fails
	assert.False(t, s.Verify("+919876543210", "123456"))
}

func TestVerifyUnknownPhone(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	assert.False(t, s.Verify("+919876543210", "123456"))
}

func TestVerifyExpiredCode(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	s.Put("+919876543210", "123456")

	s.now = func() time.Time { return now.Add(6 * time.Minute) }
	assert.False(t, s.Verify("+919876543210", "123456"))
}

func TestPutOverwritesPreviousCode(t *testing.T) {
	s := NewMemoryStore(5 * time.Minute)
	s.Put("+919876543210", "111111")
	s.Put("+919876543210", "222222")
	assert.False(t, s.Verify("+919876543210", "111111"))
	assert.True(t, s.Verify("+919876543210", "222222"))
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		code := GenerateCode()
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
