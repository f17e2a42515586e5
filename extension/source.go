package extension

// Source supplies the contribution entries of an extension point, in a
// stable order.
type Source interface {
	Entries(point string) ([]Entry, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(point string) ([]Entry, error)

func (f SourceFunc) Entries(point string) ([]Entry, error) { return f(point) }
