// internal/llm/parse.go
//
// Pure parsers for generator responses. The HTTP adapter hands raw
// completion text to these; everything here is deterministic and
// tested without network access.

package llm

import (
	"strings"

	"github.com/google/uuid"

	"parley/internal/casefile"
	"parley/internal/reconcile"
)

// ParseParties reads the one-party-per-line identification format:
//
//	Name | primary or auxiliary | user or counterpart | description
//
// Lines that do not fit are skipped. The first primary marked "user"
// becomes the user's side.
func ParseParties(text string) []casefile.Party {
	var parties []casefile.Party
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			continue
		}
		p := casefile.Party{
			ID:        uuid.NewString(),
			Name:      name,
			IsPrimary: strings.EqualFold(strings.TrimSpace(fields[1]), "primary"),
		}
		if len(fields) > 2 {
			p.IsUserSide = strings.EqualFold(strings.TrimSpace(fields[2]), "user")
		}
		if len(fields) > 3 {
			p.Description = strings.TrimSpace(fields[3])
		}
		parties = append(parties, p)
	}
	return parties
}

// Section titles the analysis prompt asks for, at heading level 1.
const (
	sectionAgreementMap = "agreement map"
	sectionInterestMap  = "interest map"
	sectionIssues       = "issues"
)

// ParseAnalysis splits a generated analysis into its three sections.
// Sections are delimited by level-1 headings; deeper headings (the
// per-issue blocks inside the issues section) stay in the body. A
// response with no recognizable sections is kept whole as issue text
// rather than dropped, mirroring the codec's own never-lose-input rule.
func ParseAnalysis(text string) (agreementMap, interestMap, issuesText string) {
	var current *[]string
	var agreement, interest, issues []string
	found := false
	for _, line := range strings.Split(text, "\n") {
		if title, ok := topHeading(line); ok {
			switch strings.ToLower(title) {
			case sectionAgreementMap:
				current = &agreement
				found = true
			case sectionInterestMap:
				current = &interest
				found = true
			case sectionIssues:
				current = &issues
				found = true
			default:
				current = nil
			}
			continue
		}
		if current != nil {
			*current = append(*current, line)
		}
	}
	if !found {
		return "", "", strings.TrimSpace(text)
	}
	return joinSection(agreement), joinSection(interest), joinSection(issues)
}

// ParseScenarios reads heading-delimited scenario blocks. A heading
// naming a known kind sets the draft's kind; otherwise the canonical
// kind for the block's position applies.
func ParseScenarios(text string) []reconcile.Draft {
	var drafts []reconcile.Draft
	var body []string
	inBlock := false
	var kind casefile.ScenarioKind

	flush := func() {
		if inBlock {
			drafts = append(drafts, reconcile.Draft{Kind: kind, Description: joinSection(body)})
		}
		body = nil
	}
	for _, line := range strings.Split(text, "\n") {
		if title, ok := anyHeading(line); ok {
			flush()
			inBlock = true
			kind = kindFromTitle(title, len(drafts))
			continue
		}
		body = append(body, line)
	}
	flush()
	return drafts
}

// Field labels for the risk-assessment response, in prompt order.
var riskLabels = []struct {
	label  string
	assign func(*casefile.RiskAssessment, string)
}{
	{"category", func(ra *casefile.RiskAssessment, v string) { ra.Category = v }},
	{"short-term impact", func(ra *casefile.RiskAssessment, v string) { ra.ShortTermImpact = v }},
	{"short-term mitigation", func(ra *casefile.RiskAssessment, v string) { ra.ShortTermMitigation = v }},
	{"short-term risk after", func(ra *casefile.RiskAssessment, v string) { ra.ShortTermRiskAfter = v }},
	{"long-term impact", func(ra *casefile.RiskAssessment, v string) { ra.LongTermImpact = v }},
	{"long-term mitigation", func(ra *casefile.RiskAssessment, v string) { ra.LongTermMitigation = v }},
	{"long-term risk after", func(ra *casefile.RiskAssessment, v string) { ra.LongTermRiskAfter = v }},
	{"overall assessment", func(ra *casefile.RiskAssessment, v string) { ra.OverallAssessment = v }},
}

// ParseRiskAssessment reads the labeled-field response format. Values
// may span lines; a new label ends the previous value.
func ParseRiskAssessment(text string) casefile.RiskAssessment {
	var ra casefile.RiskAssessment
	var assign func(*casefile.RiskAssessment, string)
	var value []string

	flush := func() {
		if assign != nil {
			assign(&ra, joinSection(value))
		}
		value = nil
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(strings.TrimSpace(line), "-* \t")
		matched := false
		for _, rl := range riskLabels {
			if len(trimmed) > len(rl.label) && strings.EqualFold(trimmed[:len(rl.label)], rl.label) {
				// Bold labels leave a trailing "**" between the label
				// and its colon, or after it.
				rest := strings.TrimLeft(trimmed[len(rl.label):], "*")
				if strings.HasPrefix(rest, ":") {
					flush()
					assign = rl.assign
					value = append(value, strings.TrimSpace(strings.TrimLeft(rest[1:], "* ")))
					matched = true
					break
				}
			}
		}
		if !matched && assign != nil {
			value = append(value, line)
		}
	}
	flush()
	return ra
}

func kindFromTitle(title string, position int) casefile.ScenarioKind {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))
	for _, k := range casefile.KindOrder {
		if strings.EqualFold(normalized, string(k)) {
			return k
		}
	}
	if position < len(casefile.KindOrder) {
		return casefile.KindOrder[position]
	}
	return ""
}

func topHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "# ") {
		return "", false
	}
	return strings.TrimSpace(line[2:]), true
}

func anyHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	rest := strings.TrimLeft(line, "#")
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func joinSection(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
