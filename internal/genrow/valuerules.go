package genrow

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/mitumame/mamegen/internal/dsl"
)

// charsetPools mirrors the CHARSETS table from the reference generator:
// named pools a charset() rule can draw its characters from.
var charsetPools = map[string]string{
	"lower":    "abcdefghijklmnopqrstuvwxyz",
	"upper":    "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"alphabet": "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"number":   "0123456789",
	"hex":      "0123456789ABCDEF",
	"symbol":   "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~",
}

const defaultPool = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// poolFromCharset builds the deduplicated, sorted character pool for a
// CharsetConfig, following _pool_from_charset: unknown kind tokens are
// silently ignored, and an empty result falls back to letters+digits.
func poolFromCharset(c *dsl.CharsetConfig) string {
	if c == nil {
		return defaultPool
	}
	if c.Literal != "" {
		set := map[rune]bool{}
		for _, r := range c.Literal {
			set[r] = true
		}
		return sortedRunes(set)
	}
	set := map[rune]bool{}
	for _, kind := range c.Kinds {
		pool, ok := charsetPools[kind]
		if !ok {
			continue
		}
		for _, r := range pool {
			set[r] = true
		}
	}
	if len(set) == 0 {
		return defaultPool
	}
	return sortedRunes(set)
}

func sortedRunes(set map[rune]bool) string {
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

func randString(rng *rand.Rand, n int, pool string) string {
	if pool == "" {
		pool = defaultPool
	}
	runes := []rune(pool)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(runes[rng.Intn(len(runes))])
	}
	return sb.String()
}

// goLayout translates a "YYYY-MM-DD HH:mm:ss"-style format string into a Go
// reference-time layout, mirroring _to_py_dt_fmt's token substitution.
func goLayout(fmt string) string {
	repl := strings.NewReplacer(
		"YYYY", "2006",
		"MM", "01",
		"DD", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
	)
	return repl.Replace(fmt)
}

// parseDateLike accepts "YYYY-MM-DD", "YYYY/MM/DD", or either with a
// trailing " HH:MM:SS", matching _parse_date_like's normalisation.
func parseDateLike(s string) (time.Time, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	if strings.Contains(norm, " ") {
		return time.Parse("2006-01-02 15:04:05", norm)
	}
	return time.Parse("2006-01-02", norm)
}

func defaultDateFormat(isDatetime bool) string {
	if isDatetime {
		return "YYYY-MM-DD HH:mm:ss"
	}
	return "YYYY-MM-DD"
}

// randomDate picks a uniformly random instant between start and end
// (inclusive), at day resolution for dates and second resolution for
// datetimes, following generate_data's date/datetime branch.
func randomDate(rng *rand.Rand, start, end time.Time, isDatetime bool) time.Time {
	if end.Before(start) {
		start, end = end, start
	}
	if isDatetime {
		startSec, endSec := start.Unix(), end.Unix()
		if endSec < startSec {
			startSec, endSec = endSec, startSec
		}
		span := endSec - startSec
		offset := int64(0)
		if span > 0 {
			offset = int64(rng.Int63n(span + 1))
		}
		return time.Unix(startSec+offset, 0)
	}
	days := int(end.Sub(start).Hours() / 24)
	offset := 0
	if days > 0 {
		offset = rng.Intn(days + 1)
	}
	return start.AddDate(0, 0, offset)
}

func roundTo(f float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(f*scale+0.5)) / scale
}
