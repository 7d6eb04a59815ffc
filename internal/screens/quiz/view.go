package quiz

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/aginor/exphil/internal/question"
	"github.com/aginor/exphil/internal/session"
	"github.com/aginor/exphil/internal/ui/components"
	"github.com/aginor/exphil/internal/ui/layout"
	"github.com/aginor/exphil/internal/ui/theme"
)

const (
	noQuestionsText   = "Ingen spørsmål tilgjengelig for valgt kategori."
	noExplanationText = "Ingen forklaring tilgjengelig."
)

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{s.renderCategoryBar(cw)}
	if s.confirm != "" {
		sections = append(sections, s.renderConfirm(cw))
	}

	snap := s.sess.Snapshot()
	switch snap.Phase {
	case session.PhaseIdle, session.PhaseLoading:
		sections = append(sections, theme.Hint.Render("Laster spørsmål..."))
	case session.PhaseFinished:
		if snap.Total == 0 {
			sections = append(sections, s.renderEmpty(cw))
		} else {
			sections = append(sections, s.renderFinished(cw))
		}
	default:
		sections = append(sections, s.renderQuestion(cw, snap))
	}

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

// renderCategoryBar lists the categories with the active one highlighted.
func (s *QuizScreen) renderCategoryBar(cw int) string {
	active := s.sess.Category()
	parts := make([]string, 0, s.deps.Catalog.Len())
	var desc string
	for _, c := range s.deps.Catalog.All() {
		if c.Code == active {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(theme.Primary).
				Bold(true).
				Underline(true).
				Render(c.Name))
			desc = c.Description
			continue
		}
		parts = append(parts, theme.Muted.Render(c.Name))
	}

	bar := layout.Center(strings.Join(parts, "   "), cw)
	if desc != "" {
		bar += "\n" + layout.Center(theme.Hint.Render(desc), cw)
	}
	return bar
}

func (s *QuizScreen) renderConfirm(cw int) string {
	target := s.deps.Catalog.Resolve(s.confirm)
	text := fmt.Sprintf("Bytte til %s? Fremgangen i denne runden går tapt. (j/n)", target.Name)
	return components.Card(lipgloss.NewStyle().Foreground(theme.Highlight).Render(text), cw)
}

func (s *QuizScreen) renderQuestion(cw int, snap session.Snapshot) string {
	q, _ := s.sess.Current()

	var b strings.Builder
	b.WriteString(components.NewProgressBar(snap.Position(), snap.Total, cw).View())
	b.WriteString("\n\n")
	b.WriteString(layout.Wrap(q.Text, cw, theme.Body.Bold(true)))
	b.WriteString("\n\n")

	opts := components.OptionList{
		Options:    q.Options,
		Highlights: s.sess.Highlights(s.mode),
		Cursor:     s.cursor,
		Locked:     snap.Phase == session.PhaseAnswered || (s.mode == session.ModeQuiz && s.hint),
	}
	b.WriteString(opts.View(cw))

	if s.mode == session.ModeLearn {
		b.WriteString("\n\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Korrekt svar her er nr. %d", q.CorrectIndex+1)))
	} else if selected, ok := s.sess.Selected(); ok {
		b.WriteString("\n\n")
		if q.IsCorrect(selected) {
			b.WriteString(theme.Correct.Render("Riktig!"))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Feil. Riktig svar er nr. %d", q.CorrectIndex+1)))
		}
	}

	if s.explanationVisible() {
		b.WriteString("\n\n")
		b.WriteString(s.renderExplanation(q, cw))
	}

	b.WriteString("\n\n")
	b.WriteString(s.renderFooterLine(snap))
	return b.String()
}

func (s *QuizScreen) renderExplanation(q question.Question, cw int) string {
	header := theme.Selected.Render("Forklaring:")

	var body string
	switch {
	case q.HasExplanation():
		body = q.Explanation
	case s.ai.question == q.Text && s.ai.text != "":
		body = s.ai.text + "\n" + theme.Hint.Render("(generert av AI)")
	case s.ai.question == q.Text && s.ai.loading:
		body = theme.Hint.Render("Henter forklaring...")
	case s.ai.question == q.Text && s.ai.err != nil:
		body = noExplanationText + "\n" + theme.Incorrect.Render("AI-forklaringen feilet. Trykk x for å prøve igjen.")
	default:
		body = noExplanationText
		if s.deps.Explainer.Available() {
			body += "\n" + theme.Hint.Render("Trykk x for å be om en forklaring fra AI.")
		}
	}

	return components.Card(header+"\n"+layout.Wrap(body, cw-4, theme.Body), cw)
}

func (s *QuizScreen) renderFooterLine(snap session.Snapshot) string {
	var parts []string
	if snap.Phase == session.PhaseAnswered || s.mode == session.ModeLearn {
		label := "Neste spørsmål ➜"
		if s.mode == session.ModeLearn {
			label = "Neste læring ➜"
		}
		parts = append(parts, theme.Selected.Render("[n] "+label))
	}
	if s.mode == session.ModeQuiz && snap.Phase == session.PhaseReady {
		state := "av"
		if s.hint {
			state = "på"
		}
		parts = append(parts, theme.Muted.Render("[h] Svartips: "+state))
	}
	return strings.Join(parts, "    ")
}

func (s *QuizScreen) renderEmpty(cw int) string {
	text := noQuestionsText
	if err := s.sess.Err(); err != nil && !errors.Is(err, session.ErrNoQuestions) {
		text += "\n" + theme.Hint.Render("Kunne ikke hente spørsmål.")
	}
	return layout.Center(theme.Body.Render(text), cw) + "\n\n" + s.renderButtons(cw)
}

func (s *QuizScreen) renderFinished(cw int) string {
	sum := session.BuildSummary(s.sess)

	lines := []string{
		theme.Title.Render("Spillet er ferdig!"),
		"",
		theme.Body.Render(fmt.Sprintf("Du fikk %d av %d riktige 🎉", sum.Correct, sum.Total)),
	}
	if sum.Answered > 0 && sum.Answered != sum.Total {
		lines = append(lines, theme.Muted.Render(fmt.Sprintf("Besvart: %d", sum.Answered)))
	}
	if sum.Answered > 0 {
		lines = append(lines, theme.Muted.Render(fmt.Sprintf("Treffsikkerhet: %.0f%%", sum.Accuracy*100)))
	}

	card := components.Card(lipgloss.JoinVertical(lipgloss.Center, lines...), cw)
	return card + "\n\n" + s.renderButtons(cw)
}

// renderButtons shows the action buttons above the category buttons.
func (s *QuizScreen) renderButtons(cw int) string {
	n := len(s.finishedActions())
	return layout.Center(s.buttons.ViewSpan(0, n, cw), cw) + "\n\n" +
		layout.Center(theme.Muted.Render(categoryHeading), cw) + "\n" +
		layout.Center(s.buttons.ViewSpan(n, len(s.buttons.Labels), cw), cw)
}
