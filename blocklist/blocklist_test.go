package blocklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocklistDeterminism(t *testing.T) {
	patterns := []string{"ads.example.com", "tracker.net", "Malware.TEST"}

	b := New(ModeSuffix)
	for _, p := range patterns {
		b.Insert(p)
	}

	for _, p := range patterns {
		assert.True(t, b.Contains(p))
	}

	assert.False(t, b.Contains("not-listed.example.com"))
	assert.False(t, b.Contains("malware.test.evil.com"))
}

func TestSuffixModeBlocksSubdomains(t *testing.T) {
	b := New(ModeSuffix)
	b.Insert("ads.example.com")

	assert.True(t, b.Blocked("ads.example.com"))
	assert.True(t, b.Blocked("sub.ads.example.com"))
	assert.True(t, b.Blocked("deep.sub.ads.example.com"))
	assert.False(t, b.Blocked("example.com"))
	assert.False(t, b.Blocked("other.com"))
}

func TestExactModeDoesNotBlockSubdomains(t *testing.T) {
	b := New(ModeExact)
	b.Insert("ads.example.com")

	assert.True(t, b.Blocked("ads.example.com"))
	assert.False(t, b.Blocked("sub.ads.example.com"))
}

func TestCaseInsensitive(t *testing.T) {
	b := New(ModeSuffix)
	b.Insert("Ads.Example.COM")

	assert.True(t, b.Blocked("ads.example.com"))
	assert.True(t, b.Blocked("ADS.EXAMPLE.COM"))
}

func TestLoadFileSkipsCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.txt")
	content := "# comment\n\nads.example.com\n  \ntracker.net\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b := New(ModeSuffix)
	n, err := LoadFile(b, path)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, b.Blocked("ads.example.com"))
	assert.True(t, b.Blocked("tracker.net"))
}
