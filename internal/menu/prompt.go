package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"finman/internal/core"
)

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// readLine prints the prompt and returns the next input line, trimmed.
// ok is false once input is exhausted; callers unwind instead of looping.
func (m *Menu) readLine(prompt string) (string, bool) {
	m.printf("%s", prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// promptText keeps asking until a non-empty line arrives.
func (m *Menu) promptText(prompt string) (string, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return "", false
		}
		if s == "" {
			m.printf("A value is required.\n")
			continue
		}
		return s, true
	}
}

// promptChoice reads a 1..n menu selection, re-prompting on anything else.
func (m *Menu) promptChoice(prompt string, n int) (int, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		if err != nil || i < 1 || i > n {
			m.printf("Invalid selection. Please enter a number between 1 and %d.\n", n)
			continue
		}
		return i, true
	}
}

// promptIndex reads a 1..n pick where 0 backs out.
func (m *Menu) promptIndex(prompt string, n int) (int, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return 0, false
		}
		i, err := strconv.Atoi(s)
		if err != nil || i < 0 || i > n {
			m.printf("Invalid selection. Please enter a number between 0 and %d.\n", n)
			continue
		}
		if i == 0 {
			return 0, false
		}
		return i, true
	}
}

func (m *Menu) promptAmount(prompt string) (decimal.Decimal, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return decimal.Zero, false
		}
		d, err := core.ParseAmount(s)
		if err != nil {
			m.printf("Please enter a valid positive amount.\n")
			continue
		}
		return d, true
	}
}

func (m *Menu) promptNonNegative(prompt string) (decimal.Decimal, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return decimal.Zero, false
		}
		d, err := core.ParseNonNegative(s)
		if err != nil {
			m.printf("Please enter a valid non-negative amount.\n")
			continue
		}
		return d, true
	}
}

func (m *Menu) promptDate(prompt string) (string, bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return "", false
		}
		if _, err := core.ParseDate(s); err != nil {
			m.printf("Please enter the date as YYYY-MM-DD.\n")
			continue
		}
		return s, true
	}
}

// confirm accepts y/yes/n/no in any case; anything else re-prompts.
func (m *Menu) confirm(prompt string) (answer, ok bool) {
	for {
		s, ok := m.readLine(prompt)
		if !ok {
			return false, false
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, true
		case "n", "no":
			return false, true
		}
		m.printf("Please answer y or n.\n")
	}
}
