package shell

import (
	"fmt"
	"strings"
)

// View renders the scrollback, the prompt line and a status footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(strings.Join(m.lines, "\n"))
	}
	b.WriteString("\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " ")
		if m.bridge != nil {
			b.WriteString(m.styles.Muted.Render("waiting for " + m.editorCommand))
		} else {
			b.WriteString(m.styles.Muted.Render("running"))
		}
	} else {
		b.WriteString(m.styles.Prompt.Render(m.prompt()) + m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	step := m.runner.Current()
	if step == nil {
		return m.styles.Footer.Render("finished  ctrl+c quit")
	}
	def := step.Definition()
	return m.styles.Footer.Render(fmt.Sprintf("challenge %d  %s  ctrl+c quit", def.Challenge, m.runner.Phase()))
}
