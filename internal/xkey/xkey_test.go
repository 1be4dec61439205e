package xkey_test

import (
	"testing"

	"github.com/Lucid-Synth/fileflow/internal/xkey"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "report.pdf", xkey.Sanitize("report.pdf"))
	assert.Equal(t, "my_holiday_pictures.zip", xkey.Sanitize("my holiday  pictures.zip"))
	assert.Equal(t, "weird_name", xkey.Sanitize("__(weird)//:name__"))
	assert.Equal(t, "r_sum_.pdf", xkey.Sanitize("résumé.pdf"))
}

func TestCraft(t *testing.T) {
	assert.Equal(t, "uploads/cafe42_report.pdf", xkey.Craft("cafe42", "report.pdf"))
	assert.Equal(t, "uploads/cafe42_a_b.txt", xkey.Craft("cafe42", "a b.txt"))
}
