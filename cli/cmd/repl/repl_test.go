package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/lang/stdlib"
	"github.com/ardnew/actlang/log"
)

var testLogger log.Logger

func testModel(t *testing.T) model {
	t.Helper()

	env := stdlib.New()
	ev := lang.NewEvaluator(lang.WithCache(nil))

	return newModel(t.Context(), env, ev, NewHistory(""), testLogger)
}

func typeText(m model, s string) model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})

	return next.(model), cmd
}

func TestModel_EvalPersistsBindings(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("let 'hp 7")
	m, _ = press(m, tea.KeyEnter)

	m.input.SetValue("+ hp 1")
	m, cmd := press(m, tea.KeyEnter)

	if cmd == nil {
		t.Fatal("Enter produced no output command")
	}

	v, ok := m.env.LookupVar("hp")
	if !ok || v != 7 {
		t.Errorf("hp = %v (%v), want 7", v, ok)
	}

	if m.history.Len() != 2 {
		t.Errorf("history length = %d, want 2", m.history.Len())
	}

	if m.lastSource != "+ hp 1" {
		t.Errorf("lastSource = %q", m.lastSource)
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestModel_ModeToggle(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("+ 1")

	m, _ = press(m, tea.KeyEsc)
	if m.mode != modeCtrl {
		t.Fatalf("mode = %v, want command mode", m.mode)
	}

	if m.input.Value() != "" {
		t.Errorf("command input = %q, want empty", m.input.Value())
	}

	m, _ = press(m, tea.KeyEsc)
	if m.mode != modeEval || m.input.Value() != "+ 1" {
		t.Errorf("after toggle back: mode %v input %q", m.mode, m.input.Value())
	}
}

func TestModel_QuitCommand(t *testing.T) {
	m := testModel(t)
	m, _ = press(m, tea.KeyEsc)
	m.input.SetValue("quit")

	m, _ = press(m, tea.KeyEnter)
	if !m.quitting {
		t.Error("quit did not stop the model")
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q", m.View())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := testModel(t)
	m = typeText(m, "repe")

	if len(m.matches) == 0 {
		t.Fatal("no matches for repe")
	}

	m, _ = press(m, tea.KeyTab)

	if !strings.HasPrefix(m.input.Value(), "repeat") {
		t.Errorf("input after Tab = %q, want repeat", m.input.Value())
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := testModel(t)

	for _, line := range []string{"+ 1 1", "* 2 2"} {
		m.input.SetValue(line)
		m, _ = press(m, tea.KeyEnter)
	}

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "* 2 2" {
		t.Errorf("Up = %q, want * 2 2", m.input.Value())
	}

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "+ 1 1" {
		t.Errorf("Up Up = %q, want + 1 1", m.input.Value())
	}

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("Down past end: input %q index %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_ListBindings(t *testing.T) {
	m := testModel(t)

	out := m.listBindings([]string{"repeat"})
	if !strings.Contains(out, "repeat") {
		t.Errorf("list repeat = %q", out)
	}

	if all := m.listBindings(nil); strings.Count(all, "\n") < 20 {
		t.Errorf("list shows %d bindings, want the whole library", strings.Count(all, "\n"))
	}
}

func TestModel_ViewSignatureHint(t *testing.T) {
	m := testModel(t)
	m = typeText(m, "+ 1 ")

	if view := m.View(); !strings.Contains(view, "+") || !strings.Contains(view, "b") {
		t.Errorf("View() = %q, want a signature hint for +", view)
	}
}

func TestRun_NoEnvironment(t *testing.T) {
	if err := Run(t.Context(), nil, nil, "", testLogger); err == nil {
		t.Error("Run() with nil environment succeeded")
	}
}
