package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	valid := []string{"anna@salon.ch", "first.last+tag@example.co.uk"}
	invalid := []string{"", "anna", "anna@", "@salon.ch", "Anna <anna@salon.ch>", "anna @salon.ch", "anna@localhost"}

	for _, e := range valid {
		assert.True(t, IsEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsEmail(e), e)
	}
}
