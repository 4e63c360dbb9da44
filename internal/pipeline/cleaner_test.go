package pipeline

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobradar/internal/domain"
)

func testCleaner() *Cleaner {
	return NewCleaner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCleaner_Clean(t *testing.T) {
	cleaner := testCleaner()

	cleaned, err := cleaner.Clean(&domain.RawPosting{
		RawTitle:       "  Job:  senior&nbsp;go developer - Remote ",
		RawCompany:     " Acme &amp; Sons ",
		RawLocation:    "Austin, TX (hybrid)",
		RawDescription: "Build services.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Developer", cleaned.Title)
	assert.Equal(t, "Acme & Sons", cleaned.Company)
	assert.Equal(t, "Austin, TX", cleaned.Location)
	assert.Equal(t, "Build services.", cleaned.Description)
}

func TestCleaner_CleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"prefix noise", "Position: Backend Engineer", "Backend Engineer"},
		{"work mode suffix", "Backend Engineer - Hybrid", "Backend Engineer"},
		{"trailing parenthetical", "Backend Engineer (W2 only)", "Backend Engineer"},
		{"title casing", "bACKEND eNGINEER", "Backend Engineer"},
		{"control characters", "Backend\x00Engineer", "Backend Engineer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanTitle(tt.in))
		})
	}
}

func TestCleaner_CompanySentinels(t *testing.T) {
	for _, in := range []string{"N/A", "na", "Unknown Company", "  "} {
		assert.Empty(t, cleanCompany(in), "input %q", in)
	}
	assert.Equal(t, "Nabisco", cleanCompany("Nabisco"), "sentinels match whole values only")
	assert.Equal(t, "Unknown Location", cleanCompany("Unknown Location"), "location sentinels do not apply to companies")
}

func TestCleaner_LocationSentinels(t *testing.T) {
	for _, in := range []string{"N/A", "na", "Unknown Location", "  "} {
		assert.Empty(t, cleanLocation(in), "input %q", in)
	}
	assert.Equal(t, "Remoteville", cleanLocation("Remoteville"), "sentinels match whole values only")
}

func TestCleaner_CleanDescription(t *testing.T) {
	t.Run("strips markup", func(t *testing.T) {
		got := cleanDescription("<p>Build <b>things</b>.</p>")
		assert.Equal(t, "Build things.", got)
	})

	t.Run("dedupes sentences in long descriptions", func(t *testing.T) {
		sentence := "We are hiring a software engineer to build our platform"
		long := sentence + ". " + sentence + ". " + "Apply today!"
		require.GreaterOrEqual(t, len(long), 100)

		got := cleanDescription(long)
		assert.Equal(t, 1, strings.Count(got, "We are hiring"))
		assert.Contains(t, got, "Apply today")
	})

	t.Run("short descriptions kept verbatim", func(t *testing.T) {
		short := "Great job. Great job."
		assert.Equal(t, short, cleanDescription(short))
	})

	t.Run("placeholder descriptions are blanked", func(t *testing.T) {
		for _, in := range []string{"Description not available", "No Description Available", "N/A"} {
			assert.Empty(t, cleanDescription(in), "input %q", in)
		}
	})
}

func TestCleaner_Validation(t *testing.T) {
	cleaner := testCleaner()

	t.Run("title too short", func(t *testing.T) {
		_, err := cleaner.Clean(&domain.RawPosting{RawTitle: "Go", RawCompany: "Acme"})
		assert.ErrorContains(t, err, "title length")
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := cleaner.Clean(&domain.RawPosting{
			RawTitle:   strings.Repeat("x", 250),
			RawCompany: "Acme",
		})
		assert.ErrorContains(t, err, "title length")
	})

	t.Run("length gate counts characters, not bytes", func(t *testing.T) {
		// 200 two-byte runes: over the limit in bytes, exactly at it
		// in characters.
		_, err := cleaner.Clean(&domain.RawPosting{
			RawTitle:   strings.Repeat("é", 200),
			RawCompany: "Acme",
		})
		assert.NoError(t, err)
	})

	t.Run("no company and no location", func(t *testing.T) {
		_, err := cleaner.Clean(&domain.RawPosting{RawTitle: "Engineer", RawCompany: "N/A"})
		assert.ErrorContains(t, err, "neither company nor location")
	})

	t.Run("location alone suffices", func(t *testing.T) {
		_, err := cleaner.Clean(&domain.RawPosting{RawTitle: "Engineer", RawLocation: "Remote"})
		assert.NoError(t, err)
	})
}
