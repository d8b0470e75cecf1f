package sim

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang = language.English

// CI is a confidence interval.
type CI struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// PointStat is a point estimate with its 95% interval.
type PointStat struct {
	Hat float64 `json:"hat"`
	CI  CI      `json:"ci"`
}

// Report aggregates every board of a run.
type Report struct {
	Boards        int   `json:"boards"`
	SwapsPerBoard int   `json:"swaps_per_board"`
	Workers       int   `json:"workers"`
	Seed          int64 `json:"seed"`

	Swaps    int `json:"swaps"`
	Stuck    int `json:"stuck"`    // boards left without a valid swap
	Failures int `json:"failures"` // boards whose engine aborted

	Matched        int       `json:"matched"` // swaps that cascaded at least once
	MatchRate      PointStat `json:"match_rate"`
	Matches        int       `json:"matches"`
	MatchesPerSwap float64   `json:"matches_per_swap"`
	Built          int       `json:"built"`
	Upgraded       int       `json:"upgraded"`
	BonusSwaps     int       `json:"bonus_swaps"`

	DepthMean float64 `json:"depth_mean"`
	DepthStd  float64 `json:"depth_std"`
	DepthMax  int     `json:"depth_max"`

	// TowerLevels counts towers left on the final boards by level.
	TowerLevels map[int]int `json:"tower_levels"`

	Elapsed time.Duration `json:"elapsed_ns"`
}

func newReport(o Options, workers int, results []boardResult) *Report {
	rep := &Report{
		Boards:        o.Boards,
		SwapsPerBoard: o.Swaps,
		Workers:       workers,
		Seed:          o.Seed,
		TowerLevels:   make(map[int]int),
	}

	var depths []float64
	for _, r := range results {
		rep.Swaps += r.swaps
		rep.Matched += r.matched
		rep.Matches += r.matches
		rep.Built += r.built
		rep.Upgraded += r.upgraded
		rep.BonusSwaps += r.bonus
		if r.stuck {
			rep.Stuck++
		}
		if r.err != nil {
			rep.Failures++
		}
		for lvl, n := range r.levels {
			rep.TowerLevels[lvl] += n
		}
		depths = append(depths, r.depths...)
	}

	switch len(depths) {
	case 0:
	case 1:
		rep.DepthMean = depths[0]
	default:
		rep.DepthMean, rep.DepthStd = stat.MeanStdDev(depths, nil)
	}
	for _, d := range depths {
		rep.DepthMax = max(rep.DepthMax, int(d))
	}
	if rep.Swaps > 0 {
		rep.MatchesPerSwap = float64(rep.Matches) / float64(rep.Swaps)
	}
	rep.MatchRate.Hat, rep.MatchRate.CI = proportionCICP(rep.Matched, rep.Swaps, 0.95)
	return rep
}

// proportionCICP is the Clopper-Pearson interval for k successes in n trials.
func proportionCICP(k, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// String renders the report as a two-column table.
func (r *Report) String() string {
	p := message.NewPrinter(lang)
	rows := map[string]string{
		"Boards":           p.Sprintf("%d", r.Boards),
		"Swaps per board":  p.Sprintf("%d", r.SwapsPerBoard),
		"Workers":          p.Sprintf("%d", r.Workers),
		"Seed":             fmt.Sprintf("%d", r.Seed),
		"Swaps played":     p.Sprintf("%d", r.Swaps),
		"Stuck boards":     p.Sprintf("%d", r.Stuck),
		"Failed boards":    p.Sprintf("%d", r.Failures),
		"P(swap matches)":  p.Sprintf("%.2f %%", 100*r.MatchRate.Hat),
		"95% CI":           p.Sprintf("[%.2f%%,%.2f%%]", 100*r.MatchRate.CI.Lo, 100*r.MatchRate.CI.Hi),
		"Matches per swap": p.Sprintf("%.3f", r.MatchesPerSwap),
		"Cascade mean":     p.Sprintf("%.3f", r.DepthMean),
		"Cascade std":      p.Sprintf("%.3f", r.DepthStd),
		"Cascade max":      p.Sprintf("%d", r.DepthMax),
		"Towers built":     p.Sprintf("%d", r.Built),
		"Towers upgraded":  p.Sprintf("%d", r.Upgraded),
		"Bonus swaps":      p.Sprintf("%d", r.BonusSwaps),
		"Elapsed":          r.Elapsed.Round(time.Millisecond).String(),
	}
	keys := []string{
		"Boards", "Swaps per board", "Workers", "Seed", "Swaps played", "Stuck boards", "Failed boards",
		"P(swap matches)", "95% CI", "Matches per swap", "Cascade mean", "Cascade std", "Cascade max",
		"Towers built", "Towers upgraded", "Bonus swaps", "Elapsed",
	}
	out := fmtTable("Board Simulation", keys, rows)

	if len(r.TowerLevels) > 0 {
		levels := make([]int, 0, len(r.TowerLevels))
		for lvl := range r.TowerLevels {
			levels = append(levels, lvl)
		}
		slices.Sort(levels)
		hist := make(map[string]string, len(levels))
		hkeys := make([]string, 0, len(levels))
		for _, lvl := range levels {
			k := fmt.Sprintf("Level %d", lvl)
			hkeys = append(hkeys, k)
			hist[k] = p.Sprintf("%d", r.TowerLevels[lvl])
		}
		out += fmtTable("Towers On Final Boards", hkeys, hist)
	}
	return out
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(m))
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) +
			" | " + msg[k] + blank(maxValLen-2-runewidth.StringWidth(msg[k])) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
