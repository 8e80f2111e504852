package emitter

// Output is what a host needs to carry out an edit: erase characters before
// the caret and insert text there. Tests substitute lightweight fakes.
type Output interface {
	Close() error
	SendBackspace(count int) error
	SendText(text string) error
}

var _ Output = (*Terminal)(nil)

// Edit is one instruction from the engine. A key that is not consumed is
// typed as it is.
type Edit struct {
	Consumed  bool
	Backspace int
	Text      string
}

// Apply carries out edit on out. key is what the pressed key types on its
// own; it is used when the engine let the key through, and "\b" there
// means one backspace.
func Apply(out Output, edit Edit, key string) error {
	if !edit.Consumed {
		if key == "\b" {
			return out.SendBackspace(1)
		}
		if key == "" {
			return nil
		}
		return out.SendText(key)
	}
	if err := out.SendBackspace(edit.Backspace); err != nil {
		return err
	}
	return out.SendText(edit.Text)
}
