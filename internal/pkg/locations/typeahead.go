package locations

// Typeahead tracks one search-form field: its bound value and whether
// the suggestion menu is open. User edits open the menu; selecting a
// candidate or dismissing (outside click) closes it; programmatic
// updates such as an origin/destination swap never reopen it.
type Typeahead struct {
	value string
	open  bool
}

// Input records a user keystroke. The menu opens whenever the field is
// non-empty and closes when it is cleared.
func (t *Typeahead) Input(text string) {
	t.value = text
	t.open = text != ""
}

// Select binds a chosen candidate's code and closes the menu.
func (t *Typeahead) Select(code string) {
	t.value = code
	t.open = false
}

// Dismiss closes the menu without altering the bound value.
func (t *Typeahead) Dismiss() {
	t.open = false
}

// SetValue updates the bound value programmatically without opening
// the menu.
func (t *Typeahead) SetValue(code string) {
	t.value = code
}

func (t *Typeahead) Value() string { return t.value }

func (t *Typeahead) Open() bool { return t.open }
