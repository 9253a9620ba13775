package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"labtools/internal/logger"
	"labtools/internal/registry"
	"labtools/pkg/models"
)

// numberPattern captures an optional bound marker and a 1-3 digit value with
// an optional '.' or ',' decimal part.
const numberPattern = `([<>]?\s*[0-9]{1,3}(?:[.,][0-9]+)?)`

// aliasPatterns are the two searches tried for one alias, in order.
type aliasPatterns struct {
	alias       string
	nameFirst   *regexp.Regexp // alias, then a number within 60 characters
	numberFirst *regexp.Regexp // a number, then the alias within 20 characters
}

type definitionPatterns struct {
	key     string
	aliases []aliasPatterns
}

// PatternExtractor finds biomarker values next to their names in free text.
// Patterns are compiled once; Extract is safe for concurrent use.
type PatternExtractor struct {
	defs []definitionPatterns
	log  zerolog.Logger
}

// NewPatternExtractor compiles the search patterns for every alias in reg.
func NewPatternExtractor(reg *registry.Registry) *PatternExtractor {
	p := &PatternExtractor{log: logger.WithComponent("pattern-extractor")}

	for _, d := range reg.Definitions() {
		dp := definitionPatterns{key: d.Key}
		for _, alias := range d.Aliases {
			quoted := regexp.QuoteMeta(alias)
			dp.aliases = append(dp.aliases, aliasPatterns{
				alias:       alias,
				nameFirst:   regexp.MustCompile(`(?i)` + quoted + `[\s\S]{0,60}?` + numberPattern),
				numberFirst: regexp.MustCompile(`(?i)` + numberPattern + `[\s\S]{0,20}?` + quoted),
			})
		}
		p.defs = append(p.defs, dp)
	}

	return p
}

// Extract returns at most one value per registry definition, in registry order.
// Empty text yields an empty, non-nil list.
func (p *PatternExtractor) Extract(text string) []models.Biomarker {
	found := []models.Biomarker{}
	if text == "" {
		return found
	}

	// Full-width digits from OCR become ASCII. Compatibility forms such as
	// subscript digits are left alone so "D₃" never reads as a value.
	text = width.Fold.String(norm.NFC.String(text))

	for _, d := range p.defs {
		for _, ap := range d.aliases {
			raw, ok := ap.search(text)
			if !ok {
				continue
			}

			value, err := parseNumber(raw)
			if err != nil {
				p.log.Debug().Err(err).Str("biomarker", d.key).Str("alias", ap.alias).Str("raw", raw).Msg("Skipping unparsable value")
				continue
			}

			found = append(found, models.Biomarker{Name: d.key, Value: value})
			break
		}
	}

	return found
}

func (ap aliasPatterns) search(text string) (string, bool) {
	if m := ap.nameFirst.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := ap.numberFirst.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// parseNumber drops blanks and a leading bound marker and reads ',' as the
// decimal separator. "<50" parses as 50.
func parseNumber(raw string) (float64, error) {
	clean := strings.NewReplacer(" ", "", "\t", "", ",", ".").Replace(raw)
	clean = strings.TrimPrefix(clean, "<")
	clean = strings.TrimPrefix(clean, ">")
	return strconv.ParseFloat(strings.TrimSpace(clean), 64)
}
