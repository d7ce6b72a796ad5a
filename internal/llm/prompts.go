package llm

import (
	"fmt"
	"strings"

	"parley/internal/casefile"
)

const systemPrompt = `You are a negotiation analyst. You help structure a negotiation case
into an agreement map, the parties' underlying interests, negotiable
issues, outcome scenarios and risk assessments. Follow the requested
output format exactly and do not add commentary around it.`

func partiesPrompt(rawContent string) string {
	var b strings.Builder
	b.WriteString("Identify the parties in the following negotiation case.\n")
	b.WriteString("Output one party per line in exactly this format:\n")
	b.WriteString("Name | primary or auxiliary | user or counterpart | one-line description\n")
	b.WriteString("Mark exactly two parties primary. The party whose perspective the text is written from is the user side.\n\n")
	b.WriteString("Case:\n")
	b.WriteString(rawContent)
	return b.String()
}

func analysisPrompt(req AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("Analyze the negotiation case below between ")
	b.WriteString(primaryPairNames(req.Parties))
	b.WriteString(".\nOutput exactly three sections with these level-1 headings:\n\n")
	b.WriteString("# Agreement Map\nThe overall structure of a possible agreement.\n\n")
	b.WriteString("# Interest Map\nEach party's underlying interests, not their stated positions.\n\n")
	b.WriteString("# Issues\nOne block per negotiable issue: a level-2 heading with only the issue name, then its description.\n\n")
	b.WriteString("Case:\n")
	b.WriteString(req.RawContent)
	return b.String()
}

func scenariosPrompt(req ScenariosRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For the negotiable issue %q between %s (party A) and %s (party B), describe the five canonical outcome bands.\n",
		req.Issue.Name, req.PartyA.Name, req.PartyB.Name)
	b.WriteString("Output five blocks, each a level-3 heading with exactly one of these names, in this order, followed by the band's description:\n")
	for _, k := range casefile.KindOrder {
		fmt.Fprintf(&b, "### %s\n", k)
	}
	b.WriteString("\nIssue description:\n")
	b.WriteString(req.Issue.Description)
	writeBoundary(&b, "Party A redline", req.Issue.RedlineA)
	writeBoundary(&b, "Party A bottomline", req.Issue.BottomlineA)
	writeBoundary(&b, "Party B redline", req.Issue.RedlineB)
	writeBoundary(&b, "Party B bottomline", req.Issue.BottomlineB)
	return b.String()
}

func riskPrompt(req RiskRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess the risk of the following outcome scenario for the issue %q.\n", req.Issue.Name)
	b.WriteString("Output exactly these labeled fields, each on its own line, values may continue on following lines:\n")
	b.WriteString("Category:\nShort-term impact:\nShort-term mitigation:\nShort-term risk after:\n")
	b.WriteString("Long-term impact:\nLong-term mitigation:\nLong-term risk after:\nOverall assessment:\n\n")
	fmt.Fprintf(&b, "Scenario (%s):\n%s\n", req.Scenario.Kind, req.Scenario.Description)
	return b.String()
}

func primaryPairNames(parties []casefile.Party) string {
	names := make([]string, 0, 2)
	for _, p := range parties {
		if p.IsPrimary {
			names = append(names, p.Name)
		}
	}
	if len(names) < 2 {
		return "the parties"
	}
	return names[0] + " and " + names[1]
}

func writeBoundary(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "\n%s: %s", label, value)
	}
}
