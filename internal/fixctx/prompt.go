package fixctx

import (
	"fmt"
	"strings"
)

// Prompt renders one issue as a self-contained instruction block for a
// downstream agent or human.
func (i *Issue) Prompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s:%d — `%s`\n", strings.ToUpper(string(i.Kind)), i.Doc, i.Line, i.Ref)
	if i.Section != "" {
		fmt.Fprintf(&b, "Section: %s\n", i.Section)
	}
	fmt.Fprintf(&b, "Reason: %s\n", i.Reason)

	switch i.Kind {
	case IssueStale:
		b.WriteString("The documentation references code that has changed. Review the current definition and update the surrounding prose if it no longer matches:\n")
		if i.CurrentSource != "" {
			b.WriteString("\n```python\n")
			b.WriteString(i.CurrentSource)
			b.WriteString("\n```\n")
		}
	case IssueBroken:
		b.WriteString("The reference does not resolve to anything in the codebase. ")
		if len(i.Candidates) > 0 {
			b.WriteString("Did you mean one of:\n")
			for _, c := range i.Candidates {
				fmt.Fprintf(&b, "  - %s\n", c)
			}
		} else {
			b.WriteString("Remove or correct it.\n")
		}
	case IssueAmbiguous:
		b.WriteString("The reference matches multiple definitions. Qualify it with a module path to pick one of:\n")
		for _, c := range i.Candidates {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	return b.String()
}
