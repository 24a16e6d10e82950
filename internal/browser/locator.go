package browser

import "fmt"

// Strategy selects how a Locator's value is interpreted.
type Strategy string

const (
	ByID   Strategy = "id"
	ByCSS  Strategy = "css"
	ByName Strategy = "name"
)

// Locator identifies a UI element by strategy and value. Locators are
// immutable values, created per lookup.
type Locator struct {
	Strategy Strategy
	Value    string
}

func ID(value string) Locator   { return Locator{Strategy: ByID, Value: value} }
func CSS(value string) Locator  { return Locator{Strategy: ByCSS, Value: value} }
func Name(value string) Locator { return Locator{Strategy: ByName, Value: value} }

// Selector renders the locator as a Playwright selector string.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ByID:
		return "#" + l.Value
	case ByName:
		return fmt.Sprintf("[name=%q]", l.Value)
	default:
		return l.Value
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}
