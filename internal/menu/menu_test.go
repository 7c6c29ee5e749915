package menu_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"finman/internal/auth"
	"finman/internal/budget"
	"finman/internal/log"
	"finman/internal/menu"
	"finman/internal/store"
	"finman/internal/store/memory"
	"finman/internal/user"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// newScriptedMenu wires a menu over a seeded memory store and a scripted
// stdin. Sessions are disabled so every run starts at the auth menu.
func newScriptedMenu(t *testing.T, script []string) (*menu.Menu, *bytes.Buffer, *memory.Store) {
	t.Helper()
	s := memory.New()
	if err := budget.EnsureBasicTemplate(context.Background(), s); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	logger := testLogger()
	provider := auth.NewLocalProvider(s, logger)
	users := user.NewDirectory(s, logger)

	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	out := &bytes.Buffer{}
	return menu.New(in, out, s, provider, nil, users, logger), out, s
}

func runMenu(t *testing.T, m *menu.Menu) {
	t.Helper()
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("run menu: %v", err)
	}
}

func TestSignUpThenQuitGreetsByName(t *testing.T) {
	m, out, _ := newScriptedMenu(t, []string{
		"2",               // sign up
		"Ada",             // name
		"ada@example.com", // email
		"hunter22",        // password
		"4",               // quit
	})
	runMenu(t, m)

	got := out.String()
	if !strings.Contains(got, "Account created.") {
		t.Errorf("output missing sign-up confirmation:\n%s", got)
	}
	if !strings.Contains(got, "Welcome Ada!") {
		t.Errorf("output missing greeting by name:\n%s", got)
	}
	if !strings.Contains(got, "Thanks for using the Finance Manager!") {
		t.Errorf("output missing farewell:\n%s", got)
	}
}

func TestSignInRejectsBadPassword(t *testing.T) {
	m, out, s := newScriptedMenu(t, []string{
		"1",
		"ada@example.com",
		"wrong-password",
	})
	provider := auth.NewLocalProvider(s, testLogger())
	if _, err := provider.SignUp(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	runMenu(t, m)

	if !strings.Contains(out.String(), "Invalid email or password.") {
		t.Errorf("output missing credential rejection:\n%s", out.String())
	}
}

func TestInvalidMenuSelectionReprompts(t *testing.T) {
	m, out, _ := newScriptedMenu(t, []string{
		"2", "Ada", "ada@example.com", "hunter22",
		"9", // out of range, re-prompts
		"4", // quit
	})
	runMenu(t, m)

	if !strings.Contains(out.String(), "Invalid selection.") {
		t.Errorf("output missing re-prompt notice:\n%s", out.String())
	}
}

func TestAddAssetShowsDefaultMarker(t *testing.T) {
	m, out, _ := newScriptedMenu(t, []string{
		"2", "Ada", "ada@example.com", "hunter22",
		"3",        // assets
		"2",        // add
		"Checking", // name
		"checking", // type
		"100",      // value
		"y",        // default
		"1",        // view
		"4",        // back to main
		"4",        // quit
	})
	runMenu(t, m)

	got := out.String()
	if !strings.Contains(got, "Added Checking with a balance of $100.00.") {
		t.Errorf("output missing add confirmation:\n%s", got)
	}
	if !strings.Contains(got, "(default)") {
		t.Errorf("output missing default marker:\n%s", got)
	}
}

func TestBudgetEditSessionNotTotalling100IsDiscarded(t *testing.T) {
	m, out, s := newScriptedMenu(t, []string{
		"2", "Ada", "ada@example.com", "hunter22",
		"1",  // budget
		"1",  // change by percentage
		"1",  // housing
		"50", // 25 -> 50, total 125
		"0",  // done
		"4",  // back to main
		"4",  // quit
	})
	runMenu(t, m)

	got := out.String()
	if !strings.Contains(got, "Changes were not saved.") {
		t.Errorf("output missing rejection notice:\n%s", got)
	}

	// No per-user budget record may exist: the one commit attempt failed.
	all, err := s.Query(context.Background(), store.Budgets, store.Filters{})
	if err != nil {
		t.Fatalf("query budgets: %v", err)
	}
	for _, rec := range all {
		if rec.ID != budget.BasicBudgetID {
			t.Errorf("unexpected budget record %q persisted", rec.ID)
		}
	}
}

func TestBudgetOverviewLabelsMonthlyFigureAsWeekly(t *testing.T) {
	m, out, _ := newScriptedMenu(t, []string{
		"2", "Ada", "ada@example.com", "hunter22",
		"1", // budget
		"4", // back to main
		"4", // quit
	})
	runMenu(t, m)

	// 50000 annual income from the template, divided by 12.
	if !strings.Contains(out.String(), "Avg Weekly Income: $4166.67") {
		t.Errorf("output missing overview income line:\n%s", out.String())
	}
}
