package apps

import (
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const calcMaxDigits = 16

// Calc is the calculator state machine: a display, an accumulated value and
// a pending operator. A new operand starts after an operator or equals.
type Calc struct {
	display  string
	acc      float64
	op       byte
	fresh    bool
	hasAcc   bool
	errState bool
}

// NewCalc returns a cleared calculator.
func NewCalc() *Calc {
	return &Calc{display: "0", fresh: true}
}

// Display returns what the calculator shows.
func (c *Calc) Display() string { return c.display }

// Pending returns the operator waiting for its right operand, or 0.
func (c *Calc) Pending() byte { return c.op }

// Press feeds one key: digits, ".", + - * /, "=", "c" (clear), "n" (negate),
// "%" and backspace. Unknown keys are ignored.
func (c *Calc) Press(key string) {
	if c.errState && key != "c" && key != "C" && key != "esc" {
		return
	}
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		c.digit(key)
	case ".", ",":
		c.point()
	case "+", "-", "*", "/", "x":
		op := key[0]
		if op == 'x' {
			op = '*'
		}
		c.operator(op)
	case "=", "enter":
		c.equals()
	case "c", "C", "esc":
		*c = *NewCalc()
	case "n", "±":
		c.negate()
	case "%":
		c.setValue(c.value() / 100)
	case "backspace":
		c.backspace()
	}
}

func (c *Calc) digit(d string) {
	if c.fresh {
		c.display = d
		c.fresh = false
		return
	}
	if len(strings.TrimLeft(c.display, "-.")) >= calcMaxDigits {
		return
	}
	if c.display == "0" {
		c.display = d
		return
	}
	if c.display == "-0" {
		c.display = "-" + d
		return
	}
	c.display += d
}

func (c *Calc) point() {
	if c.fresh {
		c.display = "0."
		c.fresh = false
		return
	}
	if !strings.Contains(c.display, ".") {
		c.display += "."
	}
}

func (c *Calc) operator(op byte) {
	if c.hasAcc && c.op != 0 && !c.fresh {
		c.apply()
		if c.errState {
			return
		}
	} else if !c.hasAcc || c.op == 0 {
		c.acc = c.value()
		c.hasAcc = true
	}
	c.op = op
	c.fresh = true
}

func (c *Calc) equals() {
	if c.op == 0 || !c.hasAcc {
		c.fresh = true
		return
	}
	c.apply()
	c.op = 0
	c.hasAcc = false
	c.fresh = true
}

// apply folds the display into the accumulator with the pending operator.
func (c *Calc) apply() {
	rhs := c.value()
	var out float64
	switch c.op {
	case '+':
		out = c.acc + rhs
	case '-':
		out = c.acc - rhs
	case '*':
		out = c.acc * rhs
	case '/':
		if rhs == 0 {
			c.fail()
			return
		}
		out = c.acc / rhs
	default:
		out = rhs
	}
	if math.IsInf(out, 0) || math.IsNaN(out) {
		c.fail()
		return
	}
	c.acc = out
	c.display = formatNumber(out)
}

func (c *Calc) fail() {
	*c = Calc{display: "Error", fresh: true, errState: true}
}

func (c *Calc) negate() {
	if strings.HasPrefix(c.display, "-") {
		c.display = c.display[1:]
	} else {
		c.display = "-" + c.display
	}
	c.fresh = false
}

func (c *Calc) backspace() {
	if c.fresh {
		return
	}
	c.display = c.display[:len(c.display)-1]
	if c.display == "" || c.display == "-" {
		c.display = "0"
	}
}

func (c *Calc) value() float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(c.display, "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func (c *Calc) setValue(v float64) {
	c.display = formatNumber(v)
	c.fresh = false
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'g', 12, 64)
	if strings.Contains(s, "e") {
		return s
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// Evaluate runs "lhs op rhs =" through a fresh calculator and returns the display.
func Evaluate(lhs, op, rhs string) string {
	c := NewCalc()
	c.enter(lhs)
	c.Press(op)
	c.enter(rhs)
	c.Press("=")
	return c.Display()
}

func (c *Calc) enter(num string) {
	for _, r := range strings.TrimPrefix(num, "-") {
		c.Press(string(r))
	}
	if strings.HasPrefix(num, "-") {
		c.Press("n")
	}
}

// Calculator is the calculator window.
type Calculator struct {
	calc *Calc
}

// NewCalculator creates a calculator app.
func NewCalculator(Env) App {
	return &Calculator{calc: NewCalc()}
}

// Calc exposes the underlying state machine.
func (c *Calculator) Calc() *Calc { return c.calc }

// Update implements App.
func (c *Calculator) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		c.calc.Press(key.String())
	}
	return nil
}

var (
	calcDisplayStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Align(lipgloss.Right).
				Padding(0, 1)
	calcKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	calcOpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

var calcKeypad = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
}

// View implements App.
func (c *Calculator) View(width, height int) string {
	display := c.calc.display
	if c.calc.op != 0 {
		display = string(c.calc.op) + "  " + display
	}
	rows := []string{calcDisplayStyle.Width(width).Render(display), ""}
	for _, row := range calcKeypad {
		var cells []string
		for _, k := range row {
			style := calcKeyStyle
			if strings.Contains("+-*/=", k) {
				style = calcOpStyle
			}
			cells = append(cells, style.Render(" "+k+" "))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	rows = append(rows, "", calcKeyStyle.Render("c clear  n negate  % percent"))
	if len(rows) > height && height > 0 {
		rows = rows[:height]
	}
	return strings.Join(rows, "\n")
}
