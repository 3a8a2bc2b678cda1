package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyllabusObjectPath(t *testing.T) {
	assert.Equal(t, "syllabi/co301-software-engineering.pdf", SyllabusObjectPath("CO301", "Software Engineering"))
	assert.Equal(t, "syllabi/it302.pdf", SyllabusObjectPath("IT302", ""))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/uploads/syllabi/co301.pdf",
		PublicURL("https://proj.supabase.co/", "uploads", "syllabi/co301.pdf"))
}

func TestNewSyllabusStorage(t *testing.T) {
	_, err := NewSyllabusStorage("", "key", "")
	assert.Error(t, err)

	s, err := NewSyllabusStorage("https://proj.supabase.co", "key", "")
	require.NoError(t, err)
	assert.Equal(t, "uploads", s.bucket)
}
