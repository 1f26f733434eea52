// CLAUDE:SUMMARY Verdict directive — the strict output contract the moderator synthesizes the transcript under
package council

import (
	"fmt"
	"strings"
)

// verdictDirective builds the synthesis instruction for the moderator.
// The output is a strategic document for the user, not a debate recap:
// no mention of sides or the debate itself, a decisive answer to any
// yes/no-shaped question, a mandatory mermaid decision graph, a
// two-phase checklist, and references that trace back to material
// actually surfaced during the session.
func verdictDirective(userProfile string) string {
	var b strings.Builder
	b.WriteString("The session is over. Produce the final strategic document for the user.\n\n")
	b.WriteString("Hard rules:\n")
	b.WriteString("- Do not mention the debate, the council, sides, or other advisors. Write directly to the user.\n")
	b.WriteString("- If the topic is a yes/no-shaped question, answer it decisively in the first line.\n")
	if userProfile != "" {
		fmt.Fprintf(&b, "- Tailor tone and vocabulary to this reader: %s\n", userProfile)
	}
	b.WriteString("\nRequired structure, in this order:\n")
	b.WriteString("1. DIAGNOSIS — one sentence.\n")
	b.WriteString("2. DECISION PATH — a ```mermaid fenced block containing a directed graph (graph TD) of the recommended path, including the key decision points.\n")
	b.WriteString("3. EXECUTION — two checklists: \"Immediate actions\" (this week) and \"First month\".\n")
	b.WriteString("4. REFERENCES — markdown links [title](url) to sources surfaced during this session, one line of insight each. Never invent a link.\n")
	return b.String()
}
