package constraint

// Messages holds the validation message templates. Templates containing verbs
// are formatted with fmt.Sprintf.
type Messages struct {
	ValueMissing    string
	SelectMissing   string
	CheckboxMissing string
	RadioMissing    string
	EmailMismatch   string
	URLMismatch     string
	PatternMismatch string
	// TooLong and TooShort receive the limit and the current length.
	TooLong  string
	TooShort string
	// RangeUnderflow and RangeOverflow receive the bound.
	RangeUnderflow string
	RangeOverflow  string
	BadNumber      string
}

// DefaultMessages returns the wording browsers use.
func DefaultMessages() Messages {
	return Messages{
		ValueMissing:    "Please fill out this field.",
		SelectMissing:   "Please select an item in the list.",
		CheckboxMissing: "Please check this box if you want to proceed.",
		RadioMissing:    "Please select one of these options.",
		EmailMismatch:   "Please enter an email address.",
		URLMismatch:     "Please enter a URL.",
		PatternMismatch: "Please match the requested format.",
		TooLong:         "Please shorten this text to %d characters or less (you are currently using %d characters).",
		TooShort:        "Please lengthen this text to %d characters or more (you are currently using %d characters).",
		RangeUnderflow:  "Value must be greater than or equal to %s.",
		RangeOverflow:   "Value must be less than or equal to %s.",
		BadNumber:       "Please enter a number.",
	}
}

func (m Messages) withDefaults() Messages {
	defaults := DefaultMessages()
	fill := func(target *string, fallback string) {
		if *target == "" {
			*target = fallback
		}
	}
	fill(&m.ValueMissing, defaults.ValueMissing)
	fill(&m.SelectMissing, defaults.SelectMissing)
	fill(&m.CheckboxMissing, defaults.CheckboxMissing)
	fill(&m.RadioMissing, defaults.RadioMissing)
	fill(&m.EmailMismatch, defaults.EmailMismatch)
	fill(&m.URLMismatch, defaults.URLMismatch)
	fill(&m.PatternMismatch, defaults.PatternMismatch)
	fill(&m.TooLong, defaults.TooLong)
	fill(&m.TooShort, defaults.TooShort)
	fill(&m.RangeUnderflow, defaults.RangeUnderflow)
	fill(&m.RangeOverflow, defaults.RangeOverflow)
	fill(&m.BadNumber, defaults.BadNumber)
	return m
}
