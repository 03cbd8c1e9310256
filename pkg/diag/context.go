package diag

import "fmt"

// Context names a range of text within a named source (a script path, or
// "[interactive]" for REPL input) and is attached to every RuntimeError and
// stack trace frame.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Culprit returns the text described by the range, for use in error
// messages.
func (c *Context) Culprit() string {
	if c == nil {
		return ""
	}
	from, to := c.From, c.To
	if from < 0 || to > len(c.Source) || from > to {
		return ""
	}
	return c.Source[from:to]
}

func (c *Context) String() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d-%d", c.Name, c.From, c.To)
}
