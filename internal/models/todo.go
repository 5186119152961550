package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// NameMaxLength is the longest name a todo may carry, counted in characters
// after surrounding whitespace is trimmed.
const NameMaxLength = 60

// Todo is a named, checkable task record.
type Todo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidationError reports input that can never be accepted as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateName trims name and checks it against the name rules.
// It returns the trimmed value on success.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Message: "Todo name is required"}
	}
	if utf8.RuneCountInString(trimmed) > NameMaxLength {
		return "", &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("Todo name must be %d characters or fewer", NameMaxLength),
		}
	}
	return trimmed, nil
}

// Validate checks that the todo has valid field values and normalizes its name.
func (t *Todo) Validate() error {
	name, err := ValidateName(t.Name)
	if err != nil {
		return err
	}
	t.Name = name
	return nil
}

// TodoPatch is a partial update. Only fields that are set are applied.
type TodoPatch struct {
	Name    Optional[string] `json:"name,omitzero"`
	Checked Optional[bool]   `json:"checked,omitzero"`
}

// Validate checks the supplied fields and trims the name if present.
func (p *TodoPatch) Validate() error {
	if p.Name.Set {
		if p.Name.Null {
			return &ValidationError{Field: "name", Message: "Todo name is required"}
		}
		name, err := ValidateName(p.Name.Value)
		if err != nil {
			return err
		}
		p.Name.Value = name
	}
	if p.Checked.Set && p.Checked.Null {
		return &ValidationError{Field: "checked", Message: "checked must be a boolean"}
	}
	return nil
}

// Apply copies the set fields of the patch onto t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Name.Set {
		t.Name = p.Name.Value
	}
	if p.Checked.Set {
		t.Checked = p.Checked.Value
	}
}
