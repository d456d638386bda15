package readability

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

var (
	blockSelector  = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"
	spaceExpr      = regexp.MustCompile(`[ \t]+`)
	blankLinesExpr = regexp.MustCompile(`\n{3,}`)
	tagExpr        = regexp.MustCompile(`<[^>]+>`)
)

// Analyzer turns extracted article HTML into cleaned text, statistics, and
// the full set of readability scores.
type Analyzer struct {
	logger *slog.Logger
}

var _ ports.Analyzer = (*Analyzer)(nil)

// NewAnalyzer builds the analysis engine.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze cleans the HTML, computes text statistics, and evaluates every
// formula. Content that strips down to zero words fails with
// domain.ErrNoContent rather than producing NaN scores.
func (a *Analyzer) Analyze(content string) (domain.ReadabilityReport, error) {
	text := CleanHTML(content)

	stats, err := ComputeStats(text)
	if err != nil {
		return domain.ReadabilityReport{}, err
	}

	difficult := CountDifficultWords(text)
	daleChall := DaleChall(stats, difficult)

	scores := domain.ReadabilityScores{
		Flesch:               FleschReadingEase(stats),
		FleschKincaid:        FleschKincaidGrade(stats),
		Smog:                 SMOGIndex(stats),
		DaleChall:            daleChall,
		DaleChallGrade:       DaleChallGradeLevel(daleChall),
		ColemanLiau:          ColemanLiau(stats),
		GunningFog:           GunningFog(stats),
		Spache:               Spache(stats, difficult),
		AutomatedReadability: AutomatedReadabilityIndex(stats),
	}

	if a.logger != nil {
		a.logger.Debug("analysis complete",
			"words", stats.Words,
			"sentences", stats.Sentences,
			"flesch", scores.Flesch)
	}

	return domain.ReadabilityReport{
		CleanedText: text,
		Stats:       stats,
		Scores:      scores,
	}, nil
}

// CleanHTML strips markup down to plain text, keeping paragraph boundaries
// as blank lines so the paragraph count survives. Plain-text input passes
// through with its line structure intact.
func CleanHTML(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(tagExpr.ReplaceAllString(content, " "))
	}

	doc.Find("script, style, noscript").Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks (a list inside a blockquote) would double-count.
		if sel.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := collapseSpaces(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n\n")
	}

	// No block elements: treat as plain text, preserving blank lines.
	text := spaceExpr.ReplaceAllString(doc.Text(), " ")
	text = blankLinesExpr.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceExpr.ReplaceAllString(strings.ReplaceAll(s, "\n", " "), " "))
}
