package finder

// Base is embedded by finders; it carries the finder's NAME.
type Base struct {
	name string
}

// NewBase creates a Base with the given name
func NewBase(name string) Base {
	return Base{name: name}
}

// Name returns the finder name
func (b Base) Name() string {
	return b.name
}
