package models

// CategoryChoice is either a reference to a user's TaskCategory or a plain
// fallback label. The zero value is the default "other" label.
type CategoryChoice struct {
	customID uint64
	label    string
}

// CustomCategory selects the TaskCategory with the given ID.
func CustomCategory(id uint64) CategoryChoice {
	return CategoryChoice{customID: id}
}

// DefaultCategory selects a fallback label.
func DefaultCategory(label string) CategoryChoice {
	return CategoryChoice{label: label}
}

// CustomID returns the referenced category ID, if this is a custom choice.
func (c CategoryChoice) CustomID() (uint64, bool) {
	return c.customID, c.customID != 0
}

// Label returns the fallback label, "other" when unset. It is empty for custom choices.
func (c CategoryChoice) Label() string {
	if c.customID != 0 {
		return ""
	}
	if c.label == "" {
		return "other"
	}
	return c.label
}
