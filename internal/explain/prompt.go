package explain

import (
	"fmt"
	"strings"

	"github.com/aginor/exphil/internal/question"
)

const systemPrompt = `Du er en tålmodig foreleser i examen philosophicum ved et norsk universitet. En student har svart på et flervalgsspørsmål og trenger en kort forklaring på hvorfor det riktige svaret er riktig. Svar på norsk bokmål, presist og uten å finne opp kilder.`

func userMessage(q question.Question) string {
	var b strings.Builder

	if q.Category != "" || q.Subcategory != "" {
		fmt.Fprintf(&b, "Tema: %s", q.Category)
		if q.Subcategory != "" {
			fmt.Fprintf(&b, " / %s", q.Subcategory)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Spørsmål: %s\n\nAlternativer:\n", q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&b, "\nRiktig svar: %d. %s\n", q.CorrectIndex+1, q.CorrectOption())
	b.WriteString(`
Forklar i 2-4 setninger hvorfor dette svaret er riktig. Nevn gjerne hvilken filosof eller retning det handler om, og hvorfor de andre alternativene ikke passer.`)

	return b.String()
}
