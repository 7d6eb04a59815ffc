package app

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/aginor/exphil/internal/catalog"
	phil "github.com/aginor/exphil/internal/philosophers"
	"github.com/aginor/exphil/internal/question"
	"github.com/aginor/exphil/internal/router"
	"github.com/aginor/exphil/internal/screens/quiz"
	"github.com/aginor/exphil/internal/screens/start"
	"github.com/aginor/exphil/internal/session"
)

type fixedLoader struct{}

func (fixedLoader) Load(context.Context, string) ([]question.Question, error) {
	return []question.Question{{Text: "Hva er et argument?", Options: []string{"a", "b"}, CorrectIndex: 0}}, nil
}

func testOptions(direct bool) Options {
	return Options{
		Deps: start.Deps{
			Quiz: quiz.Deps{
				Catalog: catalog.Default(),
				Loader:  fixedLoader{},
				Rand:    rand.New(rand.NewPCG(1, 2)),
			},
			Philosophers: phil.Default(),
			Rand:         rand.New(rand.NewPCG(3, 4)),
		},
		Direct: direct,
		Mode:   session.ModeQuiz,
	}
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestStartsAtMenu(t *testing.T) {
	m := newAppModel(testOptions(false))
	if m.router.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", m.router.Depth())
	}
	if m.router.Active().Title() != "Start" {
		t.Errorf("title = %q", m.router.Active().Title())
	}
}

func TestDirectOpensQuiz(t *testing.T) {
	m := newAppModel(testOptions(true))
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	q, ok := m.router.Active().(*quiz.QuizScreen)
	if !ok {
		t.Fatalf("active = %T, want *quiz.QuizScreen", m.router.Active())
	}
	if q.Session().Phase() != session.PhaseLoading {
		t.Errorf("phase = %v, want loading", q.Session().Phase())
	}
	if m.Init() == nil {
		t.Error("expected load command from Init")
	}
}

func TestEscPops(t *testing.T) {
	m := newAppModel(testOptions(true))

	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	m, _ = update(m, cmd())
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}

	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc at root should do nothing")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions(true))
	m, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1 after quit", m.router.Depth())
	}
}

func TestViewShowsStatusAndHints(t *testing.T) {
	m := newAppModel(testOptions(true))
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	q := m.router.Active().(*quiz.QuizScreen)
	gen := q.Session().Generation()
	qs, _ := fixedLoader{}.Load(context.Background(), "")
	q.Session().CompleteLoad(gen, qs, nil)
	q.Session().Answer(0)

	content := m.render()
	for _, want := range []string{"ExPhil Quiz", "Korrekt: 1", "Esc"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(testOptions(false))
	m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(m.render(), "for liten") {
		t.Error("expected too-small message")
	}
}

func TestPushFromMenu(t *testing.T) {
	m := newAppModel(testOptions(false))
	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg := cmd()
	if _, ok := msg.(router.PushScreenMsg); !ok {
		t.Fatalf("msg = %T, want PushScreenMsg", msg)
	}
	m, _ = update(m, msg)
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
}
