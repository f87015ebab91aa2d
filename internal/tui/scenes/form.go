package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
)

// Scalar fields in display order.
const (
	fieldName = iota
	fieldNominalInterest
	fieldInflation
	fieldInitialCapital
	fieldDesiredIncome
	fieldWithdrawal
	fieldTaxRate
	scalarFieldCount
)

var fieldLabels = [scalarFieldCount]string{
	"Plan name",
	"Nominal annual interest rate (%)",
	"Expected annual inflation rate (%)",
	"Initial capital ($)",
	"Desired monthly income AFTER TAX ($)",
	"Planned annual withdrawal rate (%)",
	"Tax rate (%)",
}

// newPeriodYears and newPeriodDeposit seed a period added from the form.
const (
	newPeriodYears   = 5
	newPeriodDeposit = 100
)

var (
	keyNext      = key.NewBinding(key.WithKeys("tab", "down"))
	keyPrev      = key.NewBinding(key.WithKeys("shift+tab", "up"))
	keySubmit    = key.NewBinding(key.WithKeys("enter"))
	keyAddPeriod = key.NewBinding(key.WithKeys("ctrl+n"))
	keyDelPeriod = key.NewBinding(key.WithKeys("ctrl+x"))
	keyToggleTax = key.NewBinding(key.WithKeys("ctrl+t"))
)

type periodInputs struct {
	years   textinput.Model
	deposit textinput.Model
}

// FormModel edits a plan. Rates are entered as percentages.
type FormModel struct {
	scalars   [scalarFieldCount]textinput.Model
	taxOption domain.TaxOption
	periods   []periodInputs
	focus     int
	err       error
	width     int
	height    int
}

// NewFormModel creates a form holding the default plan
func NewFormModel() *FormModel {
	m := &FormModel{}
	for i := range m.scalars {
		m.scalars[i] = newInput(16)
	}
	m.scalars[fieldName].CharLimit = 64
	m.scalars[fieldName].Width = 30
	m.SetPlan(config.DefaultPlan())
	return m
}

func newInput(width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 20
	ti.Width = width
	return ti
}

func newPeriodInputs(p domain.DepositPeriod) periodInputs {
	pi := periodInputs{years: newInput(6), deposit: newInput(14)}
	pi.years.SetValue(strconv.Itoa(p.Years))
	pi.deposit.SetValue(p.MonthlyDeposit.String())
	return pi
}

// SetPlan loads a plan into the inputs and moves focus to the first field.
func (m *FormModel) SetPlan(plan config.PlanFile) {
	m.scalars[fieldName].SetValue(plan.Name)
	m.scalars[fieldNominalInterest].SetValue(plan.NominalInterestPercent.String())
	m.scalars[fieldInflation].SetValue(plan.InflationRatePercent.String())
	m.scalars[fieldInitialCapital].SetValue(plan.InitialCapital.String())
	m.scalars[fieldDesiredIncome].SetValue(plan.DesiredMonthlyIncome.String())
	m.scalars[fieldWithdrawal].SetValue(plan.WithdrawalRatePercent.String())
	m.scalars[fieldTaxRate].SetValue(plan.TaxRatePercent.String())

	m.taxOption = plan.TaxOption
	if !m.taxOption.Valid() {
		m.taxOption = domain.TaxWholeCapital
	}

	m.periods = m.periods[:0]
	for _, p := range plan.Periods {
		m.periods = append(m.periods, newPeriodInputs(p))
	}
	m.err = nil
	m.focus = 0
	m.refocus()
}

// Plan parses the inputs and validates the result.
func (m *FormModel) Plan() (config.PlanFile, error) {
	plan := config.PlanFile{
		Name:      strings.TrimSpace(m.scalars[fieldName].Value()),
		TaxOption: m.taxOption,
	}

	targets := []struct {
		field int
		dst   *decimal.Decimal
	}{
		{fieldNominalInterest, &plan.NominalInterestPercent},
		{fieldInflation, &plan.InflationRatePercent},
		{fieldInitialCapital, &plan.InitialCapital},
		{fieldDesiredIncome, &plan.DesiredMonthlyIncome},
		{fieldWithdrawal, &plan.WithdrawalRatePercent},
		{fieldTaxRate, &plan.TaxRatePercent},
	}
	for _, t := range targets {
		v, err := parseDecimal(fieldLabels[t.field], m.scalars[t.field].Value())
		if err != nil {
			return config.PlanFile{}, err
		}
		*t.dst = v
	}

	for i, p := range m.periods {
		years, err := strconv.Atoi(strings.TrimSpace(p.years.Value()))
		if err != nil {
			return config.PlanFile{}, &domain.ValidationError{Field: fmt.Sprintf("period %d years", i+1), Reason: "is not a whole number"}
		}
		deposit, err := parseDecimal(fmt.Sprintf("period %d monthly deposit", i+1), p.deposit.Value())
		if err != nil {
			return config.PlanFile{}, err
		}
		plan.Periods = append(plan.Periods, domain.DepositPeriod{Years: years, MonthlyDeposit: deposit})
	}

	if err := config.NewInputParser().ValidatePlan(&plan); err != nil {
		return config.PlanFile{}, err
	}
	return plan, nil
}

func parseDecimal(label, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: label, Reason: "is not a number"}
	}
	return v, nil
}

// PeriodCount returns the number of deposit periods in the form
func (m *FormModel) PeriodCount() int {
	return len(m.periods)
}

// TaxOption returns the selected tax option
func (m *FormModel) TaxOption() domain.TaxOption {
	return m.taxOption
}

// Err returns the last validation error, if any
func (m *FormModel) Err() error {
	return m.err
}

// SetSize updates the scene dimensions
func (m *FormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *FormModel) focusCount() int {
	return scalarFieldCount + 1 + 2*len(m.periods)
}

func (m *FormModel) taxFocus() int {
	return scalarFieldCount
}

// periodFocus maps the focus index to a period and column (0 years, 1 deposit); ok is false outside the periods.
func (m *FormModel) periodFocus() (index, column int, ok bool) {
	rel := m.focus - scalarFieldCount - 1
	if rel < 0 {
		return 0, 0, false
	}
	return rel / 2, rel % 2, true
}

func (m *FormModel) focused() *textinput.Model {
	if m.focus < scalarFieldCount {
		return &m.scalars[m.focus]
	}
	if i, col, ok := m.periodFocus(); ok {
		if col == 0 {
			return &m.periods[i].years
		}
		return &m.periods[i].deposit
	}
	return nil
}

func (m *FormModel) refocus() tea.Cmd {
	for i := range m.scalars {
		m.scalars[i].Blur()
	}
	for i := range m.periods {
		m.periods[i].years.Blur()
		m.periods[i].deposit.Blur()
	}
	if ti := m.focused(); ti != nil {
		return ti.Focus()
	}
	return nil
}

func (m *FormModel) toggleTaxOption() {
	if m.taxOption == domain.TaxWholeCapital {
		m.taxOption = domain.TaxInterestOnly
	} else {
		m.taxOption = domain.TaxWholeCapital
	}
}

// Update handles messages for the form scene
func (m *FormModel) Update(msg tea.Msg) (*FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if ti := m.focused(); ti != nil {
			var cmd tea.Cmd
			*ti, cmd = ti.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyNext):
		m.focus = (m.focus + 1) % m.focusCount()
		return m, m.refocus()

	case key.Matches(keyMsg, keyPrev):
		m.focus = (m.focus - 1 + m.focusCount()) % m.focusCount()
		return m, m.refocus()

	case key.Matches(keyMsg, keyToggleTax):
		m.toggleTaxOption()
		return m, nil

	case key.Matches(keyMsg, keyAddPeriod):
		m.periods = append(m.periods, newPeriodInputs(domain.DepositPeriod{
			Years:          newPeriodYears,
			MonthlyDeposit: decimal.NewFromInt(newPeriodDeposit),
		}))
		m.focus = m.focusCount() - 2
		return m, m.refocus()

	case key.Matches(keyMsg, keyDelPeriod):
		if i, _, ok := m.periodFocus(); ok {
			m.periods = append(m.periods[:i], m.periods[i+1:]...)
			if m.focus >= m.focusCount() {
				m.focus = m.focusCount() - 1
			}
			return m, m.refocus()
		}
		return m, nil

	case key.Matches(keyMsg, keySubmit):
		plan, err := m.Plan()
		m.err = err
		if err != nil {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.CalculateRequestedMsg{Plan: plan} }
	}

	if m.focus == m.taxFocus() {
		switch keyMsg.String() {
		case " ", "left", "right", "h", "l":
			m.toggleTaxOption()
		}
		return m, nil
	}

	var cmd tea.Cmd
	ti := m.focused()
	*ti, cmd = ti.Update(msg)
	return m, cmd
}

// View renders the form scene
func (m *FormModel) View() string {
	labelWidth := 40
	var rows []string

	rows = append(rows, tuistyles.TitleStyle.Render("Plan inputs"), "")

	for i := range m.scalars {
		rows = append(rows, m.row(fieldLabels[i], m.scalars[i].View(), m.focus == i, labelWidth))
	}

	whole, interest := domain.TaxWholeCapital.Label(), domain.TaxInterestOnly.Label()
	if m.taxOption == domain.TaxWholeCapital {
		whole = tuistyles.SelectedItemStyle.Render("● " + whole)
		interest = tuistyles.UnselectedItemStyle.Render("○ " + interest)
	} else {
		whole = tuistyles.UnselectedItemStyle.Render("○ " + whole)
		interest = tuistyles.SelectedItemStyle.Render("● " + interest)
	}
	rows = append(rows, m.row("Tax applied to", whole+"  "+interest, m.focus == m.taxFocus(), labelWidth))

	rows = append(rows, "", tuistyles.SubtitleStyle.Render("Deposit periods"))
	if len(m.periods) == 0 {
		rows = append(rows, tuistyles.InfoStyle.Render("No deposit periods. Press ctrl+n to add one."))
	}
	fi, fcol, inPeriods := m.periodFocus()
	for i, p := range m.periods {
		yearsLabel := tuistyles.ParameterLabelStyle.Render("Years")
		depositLabel := tuistyles.ParameterLabelStyle.Render("Monthly deposit ($)")
		if inPeriods && fi == i {
			if fcol == 0 {
				yearsLabel = tuistyles.HelpKeyStyle.Render("Years")
			} else {
				depositLabel = tuistyles.HelpKeyStyle.Render("Monthly deposit ($)")
			}
		}
		rows = append(rows, fmt.Sprintf("  Period %d   %s %s   %s %s",
			i+1, yearsLabel, p.years.View(), depositLabel, p.deposit.View()))
	}

	if m.err != nil {
		rows = append(rows, "", tuistyles.ErrorStyle.Render(m.err.Error()))
	}

	rows = append(rows, "", renderHelp([][2]string{
		{"tab/↑↓", "move"},
		{"enter", "calculate"},
		{"ctrl+n", "add period"},
		{"ctrl+x", "remove period"},
		{"ctrl+t", "toggle tax"},
		{"ctrl+o", "history"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *FormModel) row(label, value string, focused bool, width int) string {
	style := tuistyles.ParameterLabelStyle
	marker := "  "
	if focused {
		style = tuistyles.HelpKeyStyle
		marker = "▸ "
	}
	return marker + style.Width(width).Render(label) + value
}

// renderHelp joins key/description pairs into a help line
func renderHelp(bindings [][2]string) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = tuistyles.HelpKeyStyle.Render(b[0]) + " " + tuistyles.HelpDescStyle.Render(b[1])
	}
	return strings.Join(parts, " • ")
}
