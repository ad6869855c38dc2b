package systemprompt

// ContextProvider is an interface that defines the title and info of a context provider
type ContextProvider interface {
	Title() string
	Info() string
}

// StaticContext is a ContextProvider holding fixed text
type StaticContext struct {
	title string
	info  string
}

var _ ContextProvider = (*StaticContext)(nil)

// NewStaticContext returns a ContextProvider for title with fixed info
func NewStaticContext(title string, info string) *StaticContext {
	return &StaticContext{title: title, info: info}
}

func (c StaticContext) Title() string {
	return c.title
}

func (c StaticContext) Info() string {
	return c.info
}
