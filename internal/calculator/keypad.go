package calculator

// Category groups buttons by how the accumulator treats them.
type Category string

const (
	CategoryDigit    Category = "digit"
	CategoryDecimal  Category = "decimal"
	CategoryOperator Category = "operator"
	CategoryFunction Category = "function"
	CategoryConstant Category = "constant"
	CategoryAction   Category = "action"
	CategoryEquals   Category = "equals"
)

// Action tags the non-input buttons.
type Action string

const (
	ActionClear      Action = "clear"
	ActionBackspace  Action = "backspace"
	ActionToggleMode Action = "toggle-mode"
)

// Button is one key of the calculator keypad. Display is what the key and
// the visual buffer show; Internal is what goes into the evaluable buffer.
type Button struct {
	Display  string   `json:"display"`
	Internal string   `json:"internal"`
	Category Category `json:"category"`
	Action   Action   `json:"action,omitempty"`
}

var keypad = []Button{
	{Display: "AC", Internal: string(ActionClear), Category: CategoryAction, Action: ActionClear},
	{Display: "⌫", Internal: string(ActionBackspace), Category: CategoryAction, Action: ActionBackspace},
	{Display: "DEG/RAD", Internal: string(ActionToggleMode), Category: CategoryAction, Action: ActionToggleMode},

	{Display: "sin", Internal: "sin", Category: CategoryFunction},
	{Display: "cos", Internal: "cos", Category: CategoryFunction},
	{Display: "tan", Internal: "tan", Category: CategoryFunction},
	{Display: "sin⁻¹", Internal: "asin", Category: CategoryFunction},
	{Display: "cos⁻¹", Internal: "acos", Category: CategoryFunction},
	{Display: "tan⁻¹", Internal: "atan", Category: CategoryFunction},
	{Display: "√", Internal: "sqrt", Category: CategoryFunction},
	{Display: "∛", Internal: "cbrt", Category: CategoryFunction},
	{Display: "log", Internal: "log10", Category: CategoryFunction},
	{Display: "ln", Internal: "ln", Category: CategoryFunction},
	{Display: "eˣ", Internal: "exp", Category: CategoryFunction},
	{Display: "abs", Internal: "abs", Category: CategoryFunction},

	{Display: "π", Internal: "pi", Category: CategoryConstant},
	{Display: "e", Internal: "e", Category: CategoryConstant},

	{Display: "(", Internal: "(", Category: CategoryOperator},
	{Display: ")", Internal: ")", Category: CategoryOperator},
	{Display: "^", Internal: "^", Category: CategoryOperator},
	{Display: "%", Internal: "%", Category: CategoryOperator},
	{Display: "÷", Internal: "/", Category: CategoryOperator},
	{Display: "×", Internal: "*", Category: CategoryOperator},
	{Display: "−", Internal: "-", Category: CategoryOperator},
	{Display: "+", Internal: "+", Category: CategoryOperator},

	{Display: "7", Internal: "7", Category: CategoryDigit},
	{Display: "8", Internal: "8", Category: CategoryDigit},
	{Display: "9", Internal: "9", Category: CategoryDigit},
	{Display: "4", Internal: "4", Category: CategoryDigit},
	{Display: "5", Internal: "5", Category: CategoryDigit},
	{Display: "6", Internal: "6", Category: CategoryDigit},
	{Display: "1", Internal: "1", Category: CategoryDigit},
	{Display: "2", Internal: "2", Category: CategoryDigit},
	{Display: "3", Internal: "3", Category: CategoryDigit},
	{Display: "0", Internal: "0", Category: CategoryDigit},
	{Display: ".", Internal: ".", Category: CategoryDecimal},
	{Display: "=", Internal: "=", Category: CategoryEquals},
}

// aliases are extra spellings accepted by Lookup for keyboard input.
var aliases = map[string]string{
	"C":     "AC",
	"DEL":   "⌫",
	"mode":  "DEG/RAD",
	"x":     "×",
	"enter": "=",
}

// Keypad returns the full button set in layout order.
func Keypad() []Button {
	out := make([]Button, len(keypad))
	copy(out, keypad)
	return out
}

// Lookup finds a button by its display glyph, its internal value or an
// alias.
func Lookup(key string) (Button, bool) {
	if alias, ok := aliases[key]; ok {
		key = alias
	}

	for _, b := range keypad {
		if b.Display == key {
			return b, true
		}
	}
	for _, b := range keypad {
		if b.Internal == key {
			return b, true
		}
	}

	return Button{}, false
}
