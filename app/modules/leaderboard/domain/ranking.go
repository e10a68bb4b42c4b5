package leaderboarddomain

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is a finished run with its result and optional player profile.
type Entry struct {
	RunID       uuid.UUID
	CreatedAt   time.Time
	UserID      string
	DisplayName string
	Email       string
	Score       *float64
	PnL         *float64
	Sharpe      *float64
	MaxDrawdown *float64
	WinRate     *float64
}

// Row is one ranked line of a leaderboard.
type Row struct {
	Rank        int       `json:"rank"`
	RunID       string    `json:"runId"`
	CreatedAt   time.Time `json:"createdAt"`
	Trader      string    `json:"trader"`
	Score       *float64  `json:"score"`
	PnL         *float64  `json:"pnl"`
	Sharpe      *float64  `json:"sharpe"`
	MaxDrawdown *float64  `json:"max_drawdown"`
	WinRate     *float64  `json:"win_rate"`
}

// ParseLimit reads a limit query value. Missing or non-numeric input gives
// DefaultLimit. Fractions are truncated, then clamped to [1, MaxLimit].
func ParseLimit(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(f) {
		return DefaultLimit
	}
	if f >= MaxLimit {
		return MaxLimit
	}
	if f < 1 {
		return 1
	}
	return ClampLimit(int(f))
}

// ClampLimit bounds n to [1, MaxLimit].
func ClampLimit(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

// Rank orders entries by score desc, then pnl desc, then creation time, and
// returns at most limit rows ranked 1..N. Missing values sort last.
func Rank(entries []Entry, limit int) []Row {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if sa, sb := orNegInf(a.Score), orNegInf(b.Score); sa != sb {
			return sa > sb
		}
		if pa, pb := orNegInf(a.PnL), orNegInf(b.PnL); pa != pb {
			return pa > pb
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	limit = ClampLimit(limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]Row, len(sorted))
	for i, e := range sorted {
		rows[i] = Row{
			Rank:        i + 1,
			RunID:       e.RunID.String(),
			CreatedAt:   e.CreatedAt,
			Trader:      TraderName(e.DisplayName, e.Email, e.UserID),
			Score:       e.Score,
			PnL:         e.PnL,
			Sharpe:      e.Sharpe,
			MaxDrawdown: e.MaxDrawdown,
			WinRate:     e.WinRate,
		}
	}
	return rows
}

func orNegInf(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}

// TraderName picks the public label for a participant.
func TraderName(displayName, email, userID string) string {
	if v := strings.TrimSpace(displayName); v != "" {
		return v
	}
	if strings.TrimSpace(email) != "" {
		return MaskEmail(email)
	}
	userID = strings.TrimSpace(userID)
	switch {
	case userID == "":
		return "anonymous"
	case strings.Contains(userID, "@"):
		return MaskEmail(userID)
	}
	runes := []rune(userID)
	if len(runes) > 6 {
		runes = runes[:6]
	}
	return "Trader-" + string(runes)
}

// MaskEmail keeps the first two characters of the local part.
func MaskEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return "anonymous"
	}
	runes := []rune(local)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes) + "***"
}
