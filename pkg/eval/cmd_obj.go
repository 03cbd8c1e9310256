package eval

import "strings"

// CmdObject wraps the result of a launched pipeline: its aggregate exit
// status and, for the `$(...)` capture-output syntactic form, its captured
// stdout text. It is the evaluator-facing counterpart of a job.Job.
type CmdObject struct {
	status   int
	captured bool
	output   string
}

func NewCmdObject(status int) *CmdObject {
	return &CmdObject{status: status}
}

func NewCapturedCmdObject(status int, output string) *CmdObject {
	return &CmdObject{status: status, captured: true, output: output}
}

func (*CmdObject) Kind() Kind      { return CMD }
func (*CmdObject) TypeObj() Object { return CmdTypeObj }
func (o *CmdObject) Copy() Object  { return o }
func (o *CmdObject) Repr() string {
	if o.captured {
		return o.output
	}
	return "<cmd status=" + NewInt(int64(o.status)).Repr() + ">"
}
func (o *CmdObject) Equal(x Object) bool {
	v, ok := x.(*CmdObject)
	return ok && v == o
}

// Status returns the pipeline's aggregate exit status.
func (o *CmdObject) Status() int { return o.status }

// Attr exposes `.status` and `.output` without requiring a declared-class
// wrapper: built-in container kinds get a handful of read-only
// pseudo-attributes rather than a full AttrHolder implementation each.
func (o *CmdObject) Attr(self Object, name string) (Object, error) {
	cmd := self.(*CmdObject)
	switch name {
	case "status":
		return NewInt(int64(o.status)), nil
	case "output":
		return NewString(o.output), nil
	case "lines":
		return NewNativeFunc("lines", func(*Frame, []Object, map[string]Object) (Object, error) {
			return NewCmdIter(cmd), nil
		}), nil
	default:
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "cmdobj has no attribute %s", name)
	}
}

func (o *CmdObject) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cmdobj attributes are read-only")
}

// Lines splits captured output into its constituent lines, dropping a
// single trailing newline the way command substitution conventionally does.
func (o *CmdObject) Lines() []string {
	out := strings.TrimSuffix(o.output, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// CmdIterObject iterates a CmdObject's captured output line by line.
type CmdIterObject struct {
	lines []string
	pos   int
}

func NewCmdIter(cmd *CmdObject) *CmdIterObject {
	return &CmdIterObject{lines: cmd.Lines()}
}

func (*CmdIterObject) Kind() Kind      { return CMD_ITER }
func (*CmdIterObject) TypeObj() Object { return CmdIterTypeObj }
func (o *CmdIterObject) Copy() Object  { return o }
func (o *CmdIterObject) Repr() string  { return "<cmd_iter>" }
func (o *CmdIterObject) Equal(x Object) bool {
	v, ok := x.(*CmdIterObject)
	return ok && v == o
}

func (o *CmdIterObject) HasNext() bool { return o.pos < len(o.lines) }

func (o *CmdIterObject) Next() Object {
	v := NewString(o.lines[o.pos])
	o.pos++
	return v
}

// Drain consumes the remainder of the iterator as a slice of STRING
// objects, used by materializeIterable's for-loop path.
func (o *CmdIterObject) Drain() ([]Object, error) {
	out := make([]Object, 0, len(o.lines)-o.pos)
	for o.HasNext() {
		out = append(out, o.Next())
	}
	return out, nil
}

// Attr exposes `.has_next()`/`.next()` for manual while-loop driving, the
// CMD_ITER counterpart of ArrayIterObject.Attr.
func (o *CmdIterObject) Attr(self Object, name string) (Object, error) {
	it := self.(*CmdIterObject)
	switch name {
	case "has_next":
		return NewNativeFunc("has_next", func(*Frame, []Object, map[string]Object) (Object, error) {
			return NewBool(it.HasNext()), nil
		}), nil
	case "next":
		return NewNativeFunc("next", func(*Frame, []Object, map[string]Object) (Object, error) {
			if !it.HasNext() {
				return nil, NewRuntimeError(OUT_OF_RANGE, "cmd_iter exhausted")
			}
			return it.Next(), nil
		}), nil
	default:
		return nil, NewRuntimeError(SYMBOL_NOT_FOUND, "cmd_iter has no attribute %s", name)
	}
}

func (o *CmdIterObject) AttrAssign(self Object, name string) (*SymbolAttr, error) {
	return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "cmd_iter has no assignable attributes")
}
