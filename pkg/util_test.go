package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBytesToString(t *testing.T) {
	want := "test"
	stringBytes := []byte(want)
	got := BytesToString(stringBytes)
	assert.Equal(t, want, got)
}

func TestTrimmedBytesToString(t *testing.T) {
	assert.Equal(t, "a1b2c3", TrimmedBytesToString([]byte("a1b2c3\n")))
	assert.Equal(t, "", TrimmedBytesToString(nil))
}
