// Package console implements the interactive loan calculator: a menu of the
// four quantities, prompts for the three known ones, the solved loan summary
// and the schedule table, which can be browsed or saved to a file.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/amortize/internal/calculator"
	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/format"
	"github.com/iwvelando/amortize/pkg/loans"
	"github.com/iwvelando/amortize/pkg/mathutil"
	"github.com/iwvelando/amortize/pkg/output"
	"github.com/iwvelando/amortize/pkg/validation"
	"go.uber.org/zap"
)

type screen int

const (
	screenMenu screen = iota
	screenPrompt
	screenResult
	screenTable
	screenSave
)

type field int

const (
	fieldRate field = iota
	fieldLoan
	fieldPayment
	fieldMonths
)

var prompts = map[field]string{
	fieldRate:    "Please enter the annual interest rate (>= 0), e.g. 5.4",
	fieldLoan:    "Please enter the amount of the loan (positive number only)",
	fieldPayment: "Enter the amount of the monthly payment (greater than 0)",
	fieldMonths:  "Enter the number of monthly payments",
}

// promptOrder lists the known quantities collected for each unknown.
var promptOrder = map[calculator.Quantity][]field{
	calculator.Payment:   {fieldRate, fieldLoan, fieldMonths},
	calculator.Principal: {fieldRate, fieldPayment, fieldMonths},
	calculator.Term:      {fieldRate, fieldLoan, fieldPayment},
	calculator.Rate:      {fieldLoan, fieldPayment, fieldMonths},
}

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 8 // title, border and help lines around the table
)

// Model is the bubbletea model of the loan calculator.
type Model struct {
	calc   *calculator.Calculator
	logger *zap.Logger

	screen  screen
	unknown calculator.Quantity
	step    int
	terms   loans.Terms

	// Term bounds for the rate prompt, known once the payment is entered.
	minMonths int
	maxMonths int

	input textinput.Model
	table viewport.Model

	width    int
	height   int
	message  string
	err      error
	quitting bool
}

// New creates the console model. A nil logger discards log output.
func New(calc *calculator.Calculator, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.CharLimit = 256
	input.Width = 40

	return Model{
		calc:   calc,
		logger: logger,
		input:  input,
		table:  viewport.New(defaultWidth-2, tableHeight(defaultHeight)),
		width:  defaultWidth,
		height: defaultHeight,
	}
}

func tableHeight(windowHeight int) int {
	return max(windowHeight-chromeHeight, 5)
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.Width = msg.Width - 2
		m.table.Height = tableHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenPrompt:
			return m.updatePrompt(msg)
		case screenResult:
			return m.updateResult(msg)
		case screenTable:
			return m.updateTable(msg)
		case screenSave:
			return m.updateSave(msg)
		}
	}

	if m.screen == screenPrompt || m.screen == screenSave {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || key == "Q" {
		m.quitting = true
		return m, tea.Quit
	}

	unknown, err := calculator.ParseQuantity(key)
	if err != nil {
		return m, nil
	}

	m.logger.Debug(fmt.Sprintf("calculating %s", unknown),
		zap.String("op", "console.Model.updateMenu"),
	)
	m.unknown = unknown
	m.terms = loans.Terms{}
	m.step = 0
	m.err = nil
	m.message = ""
	m.screen = screenPrompt
	return m, m.resetInput("")
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.toMenu()
		return m, nil

	case tea.KeyEnter:
		if err := m.accept(m.currentField(), m.input.Value()); err != nil {
			m.err = err
			m.input.Reset()
			return m, nil
		}
		m.err = nil
		m.step++
		if m.step < len(promptOrder[m.unknown]) {
			return m, m.resetInput("")
		}
		return m.solve()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "t":
		schedule, err := m.calc.Schedule(m.terms)
		if err != nil {
			m.err = err
			return m, nil
		}
		var b strings.Builder
		if err := output.WriteScheduleText(&b, schedule); err != nil {
			m.err = err
			return m, nil
		}
		m.table.SetContent(b.String())
		m.table.GotoTop()
		m.screen = screenTable

	case "s":
		m.err = nil
		m.message = ""
		m.screen = screenSave
		return m, m.resetInput(m.calc.Config().ScheduleFile())

	case "r":
		m.toMenu()
		m.terms = loans.Terms{}

	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "q":
		m.screen = screenResult
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSave(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.screen = screenResult
		return m, nil

	case tea.KeyEnter:
		written, err := m.calc.SaveSchedule(strings.TrimSpace(m.input.Value()), m.terms)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.message = fmt.Sprintf("Table has been printed to file: %s", written)
		m.input.Blur()
		m.screen = screenResult
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resetInput(value string) tea.Cmd {
	m.input.Reset()
	m.input.SetValue(value)
	return m.input.Focus()
}

func (m *Model) toMenu() {
	m.input.Blur()
	m.input.Reset()
	m.screen = screenMenu
	m.step = 0
	m.err = nil
	m.message = ""
}

func (m Model) currentField() field {
	order := promptOrder[m.unknown]
	if m.step >= len(order) {
		return order[len(order)-1]
	}
	return order[m.step]
}

// accept parses and validates one typed value and stores it in m.terms.
func (m *Model) accept(f field, value string) error {
	limits := m.calc.Config().Calculator

	if f == fieldMonths {
		months, err := validation.ParseMonths(value)
		if err != nil {
			return err
		}
		if m.unknown == calculator.Rate {
			err = validation.ValidateRateTerm(months, m.minMonths, m.maxMonths)
		} else {
			err = validation.ValidateTermMonths(months, limits.MaxTermMonths)
		}
		if err != nil {
			return err
		}
		m.terms.TermMonths = months
		return nil
	}

	amount, err := validation.ParseAmount(value)
	if err != nil {
		return err
	}

	switch f {
	case fieldRate:
		rate := mathutil.RoundToFraction(amount, constants.RateFraction)
		if err := validation.ValidateInterestRate(rate); err != nil {
			return err
		}
		m.terms.AnnualRate = rate

	case fieldLoan:
		principal := mathutil.Round(amount)
		if err := validation.ValidateLoanSize(principal); err != nil {
			return err
		}
		m.terms.Principal = principal

	case fieldPayment:
		payment := mathutil.Round(amount)
		if err := validation.ValidatePaymentSize(payment); err != nil {
			return err
		}
		switch m.unknown {
		case calculator.Term:
			if err := validation.ValidateMinimumPayment(payment, m.terms.Principal, m.terms.AnnualRate); err != nil {
				return err
			}
			if err := validation.ValidatePayoffTerm(payment, m.terms.Principal, m.terms.AnnualRate, limits.MaxTermMonths); err != nil {
				return err
			}
		case calculator.Rate:
			minMonths, maxMonths, err := validation.RateTermBounds(m.terms.Principal, payment, limits.MaxRateSearchTermMonths)
			if err != nil {
				return err
			}
			m.minMonths, m.maxMonths = minMonths, maxMonths
		}
		m.terms.Payment = payment
	}
	return nil
}

func (m Model) solve() (tea.Model, tea.Cmd) {
	solved, err := m.calc.Solve(m.unknown, m.terms)
	if err != nil {
		m.logger.Warn("failed to solve loan",
			zap.String("op", "console.Model.solve"),
			zap.Error(err),
		)
		m.toMenu()
		m.err = err
		return m, nil
	}

	m.terms = solved
	m.input.Blur()
	m.screen = screenResult
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Loan Calculator"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenMenu:
		b.WriteString(m.viewMenu())
	case screenPrompt:
		b.WriteString(m.viewPrompt())
	case screenResult:
		b.WriteString(m.viewResult())
	case screenTable:
		b.WriteString(m.viewTable())
	case screenSave:
		b.WriteString(m.viewSave())
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewMenu() string {
	item := func(number, key, rest string) string {
		return fmt.Sprintf("%s. Calculate %s%s", number, menuKeyStyle.Render("["+key+"]"), rest)
	}
	menu := lipgloss.JoinVertical(lipgloss.Left,
		item("1", "P", "ayment size"),
		item("2", "L", "oan size"),
		item("3", "N", "umber of payments"),
		item("4", "I", "nterest"),
		"",
		"   Press "+menuKeyStyle.Render("[Q]")+" to quit",
	)
	return menuPanelStyle.Render(menu)
}

func (m Model) viewPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Calculate %s\n\n", m.unknown)
	b.WriteString(promptStyle.Render(prompts[m.currentField()]))
	b.WriteString("\n")
	if hint := m.hint(); hint != "" {
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: submit • esc: main menu"))
	return b.String()
}

func (m Model) hint() string {
	switch m.currentField() {
	case fieldPayment:
		if m.unknown == calculator.Term {
			return fmt.Sprintf("The minimum payment size is: %s",
				format.Currency(loans.MinimumPayment(m.terms.Principal, m.terms.AnnualRate)))
		}
	case fieldMonths:
		if m.unknown == calculator.Rate {
			return fmt.Sprintf("Minimum months: %d, maximum months: %d", m.minMonths, m.maxMonths)
		}
		return fmt.Sprintf("Between 1 and %d", m.calc.Config().Calculator.MaxTermMonths)
	}
	return ""
}

func (m Model) headline() string {
	switch m.unknown {
	case calculator.Payment:
		return "Payment size: " + format.Currency(m.terms.Payment)
	case calculator.Principal:
		return "Loan size: " + format.Currency(m.terms.Principal)
	case calculator.Term:
		return "Number of payments: " + format.Term(m.terms.TermMonths)
	case calculator.Rate:
		return "Interest rate: " + format.Rate(m.terms.AnnualRate)
	}
	return ""
}

func (m Model) viewResult() string {
	var b strings.Builder
	b.WriteString(resultStyle.Render(m.headline()))
	b.WriteString("\n")
	if err := output.WriteSummary(&b, m.terms); err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
	}
	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(resultStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[T] display table • [S] save table • [R] restart • [Q] quit"))
	return b.String()
}

func (m Model) viewTable() string {
	return tablePanelStyle.Render(m.table.View()) + "\n" +
		helpStyle.Render("↑/↓ pgup/pgdn: scroll • esc: back")
}

func (m Model) viewSave() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("Please enter a filename"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: save • esc: back"))
	return b.String()
}
