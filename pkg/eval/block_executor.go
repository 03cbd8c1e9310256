package eval

import "github.com/johanlieber/shell-plus-plus/pkg/ast"

// deferredStmt pairs a deferred statement with the symbol-table stack
// snapshot it should run against.
type deferredStmt struct {
	stmt  ast.Node
	stack *SymbolTableStack
}

// BlockExecutor is the scope executor for any lexical block: function
// bodies, loop bodies, if/else arms, try/catch/finally bodies. It owns a
// defer stack drained in LIFO order on every exit path, regardless of
// whether that exit is a fall-through, break/continue, return, or an
// uncaught throw.
type BlockExecutor struct {
	interp *Interpreter
	defers []deferredStmt
}

// NewFuncCallExecutor builds the BlockExecutor used for a function call's
// body: same defer/stop contract as any other block, RETURN is what its
// caller, FuncObject.Call, consumes.
func NewFuncCallExecutor(interp *Interpreter, stack *SymbolTableStack) *BlockExecutor {
	return &BlockExecutor{interp: interp}
}

// ExecBlock runs node (expected to be an *ast.Block, but any single
// statement is accepted for convenience) as a fresh lexical scope: it
// pushes a BLOCK_TABLE, executes statements in order, and always drains its
// defer stack before returning, regardless of the exit outcome.
func (be *BlockExecutor) ExecBlock(fm *Frame, node ast.Node) (Outcome, error) {
	outer := be.defers
	be.defers = nil
	defer func() { be.defers = outer }()

	stack := fm.Stack.Fork()
	stack.NewTable(BLOCK_TABLE)
	scoped := fm.withStack(stack)

	outcome, err := be.execStmts(scoped, stmtsOf(node))
	deferErr := be.runDefers(fm.Exec, scoped)
	destroyScopeLocals(stack.Top(), outcome)
	if deferErr != nil {
		// A throw inside defer preempts the scope's own outcome; enclosing
		// scopes still run their own defers when they exit after this.
		return throwOutcome(deferErr), nil
	}
	return outcome, err
}

// destroyScopeLocals expires the weak self-reference of every declared
// instance still bound directly in a scope that is about to pop, except one
// being carried out via RETURN or THROW: those escape to an outer scope and
// stay alive there. Instances escaping by other means (stored in an outer
// variable, appended to a container, closed over) are not tracked and will
// not be destroyed here; the garbage collector handles that case.
func destroyScopeLocals(top *SymbolTable, outcome Outcome) {
	var escaping Object
	switch outcome.Flag {
	case RETURN:
		escaping = outcome.Value
	case THROW:
		escaping = thrownObject(outcome.Err)
	}
	for _, entry := range top.entries {
		obj, ok := entry.Object.(*DeclClassObject)
		if !ok || entry.Object == escaping {
			continue
		}
		obj.Destroy()
	}
}

func stmtsOf(node ast.Node) []ast.Node {
	if b, ok := node.(*ast.Block); ok {
		return b.Stmts
	}
	return []ast.Node{node}
}

func (be *BlockExecutor) execStmts(fm *Frame, stmts []ast.Node) (Outcome, error) {
	for _, stmt := range stmts {
		outcome, err := be.execStmt(fm, stmt)
		if err != nil {
			return Outcome{}, err
		}
		if outcome.Flag != GO {
			return outcome, nil
		}
	}
	return goOutcome, nil
}

// runDefers drains the defer stack in LIFO order. Each deferred statement
// runs in a fresh BlockExecutor rooted at its captured stack snapshot. If a
// deferred statement throws, that throw preempts remaining defers *at this
// same level*; enclosing scopes still run their own defers when they exit.
func (be *BlockExecutor) runDefers(interp *Interpreter, fm *Frame) error {
	for i := len(be.defers) - 1; i >= 0; i-- {
		d := be.defers[i]
		dfm := fm.withStack(d.stack)
		inner := &BlockExecutor{interp: interp}
		outcome, err := inner.ExecBlock(dfm, d.stmt)
		if err != nil {
			return err
		}
		if outcome.Flag == THROW {
			logger.Printf("defer at index %d threw, preempting %d remaining defer(s)", i, i)
			return outcome.Err
		}
	}
	return nil
}

func (be *BlockExecutor) execStmt(fm *Frame, node ast.Node) (Outcome, error) {
	switch n := node.(type) {
	case *ast.Block:
		return be.ExecBlock(fm, n)
	case *ast.Assignment:
		if err := execAssignment(fm, n); err != nil {
			return Outcome{}, err
		}
		return goOutcome, nil
	case *ast.IfStmt:
		return be.execIf(fm, n)
	case *ast.ForStmt:
		return be.execFor(fm, n)
	case *ast.WhileStmt:
		return be.execWhile(fm, n)
	case *ast.SwitchStmt:
		return be.execSwitch(fm, n)
	case *ast.BreakStmt:
		return Outcome{Flag: BREAK}, nil
	case *ast.ContinueStmt:
		return Outcome{Flag: CONTINUE}, nil
	case *ast.ReturnStmt:
		var v Object = NewNull()
		if n.Value != nil {
			val, err := fm.EvalExpr(n.Value)
			if err != nil {
				return Outcome{}, err
			}
			v = val
		}
		return Outcome{Flag: RETURN, Value: v}, nil
	case *ast.ThrowStmt:
		val, err := fm.EvalExpr(n.Value)
		if err != nil {
			return Outcome{}, err
		}
		return throwOutcome(fm.errorp(n, &thrownValue{val})), nil
	case *ast.TryCatch:
		return be.execTryCatch(fm, n)
	case *ast.DeferStmt:
		be.defers = append(be.defers, deferredStmt{stmt: n.Stmt, stack: fm.Stack.Fork()})
		return goOutcome, nil
	case *ast.FuncDecl:
		fn := &FuncObject{Name: n.Name, Params: paramsOf(n.Params), Body: n.Body, Closure: fm.Stack, Static: n.Static}
		fm.Stack.InsertEntry(n.Name, fn, false)
		return goOutcome, nil
	case *ast.ClassDecl:
		cls, err := buildDeclClassType(fm, n)
		if err != nil {
			return Outcome{}, err
		}
		fm.Stack.InsertEntry(n.Name, cls, false)
		return goOutcome, nil
	case *ast.InterfaceDecl:
		iface, err := buildDeclIfaceType(fm, n)
		if err != nil {
			return Outcome{}, err
		}
		fm.Stack.InsertEntry(n.Name, iface, false)
		return goOutcome, nil
	case *ast.Import:
		mod, err := fm.Exec.importModule(n.Path)
		if err != nil {
			return Outcome{}, fm.errorp(n, err)
		}
		name := n.Alias
		if name == "" {
			name = n.Path
		}
		fm.Stack.InsertEntry(name, mod, false)
		return goOutcome, nil
	default:
		// Any other node is an expression evaluated for side effects.
		if _, err := fm.EvalExpr(node); err != nil {
			return Outcome{}, err
		}
		return goOutcome, nil
	}
}

// thrownValue adapts a script-level Object thrown via `throw` to the Go
// error interface expected by Outcome.Err / Exception.Reason.
type thrownValue struct{ V Object }

func (t *thrownValue) Error() string { return t.V.Repr() }

func paramsOf(ps []ast.Param) []ParamSpec {
	out := make([]ParamSpec, len(ps))
	for i, p := range ps {
		out[i] = ParamSpec{Name: p.Name, Default: p.Default, IsVariadic: p.IsVariadic}
	}
	return out
}

func (be *BlockExecutor) execIf(fm *Frame, n *ast.IfStmt) (Outcome, error) {
	cond, err := fm.EvalExpr(n.Cond)
	if err != nil {
		return Outcome{}, err
	}
	truthy, err := Truthy(fm, cond)
	if err != nil {
		return Outcome{}, err
	}
	if truthy {
		return be.ExecBlock(fm, n.Then)
	}
	if n.Else != nil {
		return be.execStmt(fm, n.Else)
	}
	return goOutcome, nil
}

func (be *BlockExecutor) execWhile(fm *Frame, n *ast.WhileStmt) (Outcome, error) {
	for {
		cond, err := fm.EvalExpr(n.Cond)
		if err != nil {
			return Outcome{}, err
		}
		truthy, err := Truthy(fm, cond)
		if err != nil {
			return Outcome{}, err
		}
		if !truthy {
			return goOutcome, nil
		}
		outcome, err := be.ExecBlock(fm, n.Body)
		if err != nil {
			return Outcome{}, err
		}
		switch outcome.Flag {
		case BREAK:
			return goOutcome, nil
		case CONTINUE, GO:
			continue
		default:
			return outcome, nil
		}
	}
}

func (be *BlockExecutor) execFor(fm *Frame, n *ast.ForStmt) (Outcome, error) {
	iterable, err := fm.EvalExpr(n.Iter)
	if err != nil {
		return Outcome{}, err
	}
	elems, err := materializeIterable(fm, iterable)
	if err != nil {
		return Outcome{}, err
	}
	for _, elem := range elems {
		stack := fm.Stack.Fork()
		stack.NewTable(BLOCK_TABLE)
		stack.Top().Insert(n.VarName, elem, false)
		scoped := fm.withStack(stack)

		outcome, err := be.ExecBlock(scoped, n.Body)
		if err != nil {
			return Outcome{}, err
		}
		switch outcome.Flag {
		case BREAK:
			return goOutcome, nil
		case CONTINUE, GO:
			continue
		default:
			return outcome, nil
		}
	}
	return goOutcome, nil
}

// materializeIterable eagerly collects the elements of an iterable Object.
// Arrays/tuples/maps iterate directly; declared instances dispatch to
// __iter__/__has_next__/__next__. Materializing eagerly, rather than
// lazily driving __next__ per step, keeps the for-loop implementation
// free of a second per-kind dispatch path.
func materializeIterable(fm *Frame, obj Object) ([]Object, error) {
	switch v := obj.(type) {
	case *ArrayObject:
		return v.Elems, nil
	case *TupleObject:
		return v.Elems, nil
	case *MapObject:
		return v.Keys(), nil
	case *StringObject:
		runes := []rune(v.Value)
		out := make([]Object, len(runes))
		for i, r := range runes {
			out[i] = NewString(string(r))
		}
		return out, nil
	case *ArrayIterObject:
		var out []Object
		for v.HasNext() {
			out = append(out, v.Next())
		}
		return out, nil
	case *CmdIterObject:
		return v.Drain()
	case *CmdObject:
		return NewCmdIter(v).Drain()
	case *DeclClassObject:
		return materializeDeclIterable(fm, v)
	default:
		return nil, NewRuntimeError(INCOMPATIBLE_TYPE, "%s is not iterable", obj.Kind())
	}
}

func (be *BlockExecutor) execSwitch(fm *Frame, n *ast.SwitchStmt) (Outcome, error) {
	subject, err := fm.EvalExpr(n.Subject)
	if err != nil {
		return Outcome{}, err
	}
	var defaultCase *ast.CaseClause
	for _, c := range n.Cases {
		if len(c.Matches) == 0 {
			defaultCase = c
			continue
		}
		for _, m := range c.Matches {
			mv, err := fm.EvalExpr(m)
			if err != nil {
				return Outcome{}, err
			}
			eq, err := objectsEqual(fm, subject, mv)
			if err != nil {
				return Outcome{}, err
			}
			if eq {
				return be.ExecBlock(fm, c.Body)
			}
		}
	}
	if defaultCase != nil {
		return be.ExecBlock(fm, defaultCase.Body)
	}
	return goOutcome, nil
}

func (be *BlockExecutor) execTryCatch(fm *Frame, n *ast.TryCatch) (Outcome, error) {
	outcome, err := be.ExecBlock(fm, n.Try)
	if err != nil {
		return Outcome{}, err
	}
	if outcome.Flag == THROW {
		handled := false
		for _, c := range n.Catches {
			stack := fm.Stack.Fork()
			stack.NewTable(BLOCK_TABLE)
			if c.VarName != "" {
				stack.Top().Insert(c.VarName, thrownObject(outcome.Err), false)
			}
			scoped := fm.withStack(stack)
			catchOutcome, cerr := be.ExecBlock(scoped, c.Body)
			if cerr != nil {
				return Outcome{}, cerr
			}
			outcome = catchOutcome
			handled = true
			break
		}
		if !handled {
			if n.Finally != nil {
				if _, err := be.ExecBlock(fm, n.Finally); err != nil {
					return Outcome{}, err
				}
			}
			return outcome, nil
		}
	}
	if n.Finally != nil {
		fOutcome, err := be.ExecBlock(fm, n.Finally)
		if err != nil {
			return Outcome{}, err
		}
		if fOutcome.Flag != GO {
			return fOutcome, nil
		}
	}
	return outcome, nil
}

// thrownObject recovers the Object payload of a thrown value for binding
// in a catch clause; a Go-side error (e.g. INVALID_COMMAND from a failed
// exec) is surfaced as a STRING.
func thrownObject(err error) Object {
	inner := err
	if exc, ok := err.(*Exception); ok {
		inner = exc.Reason
	}
	if tv, ok := inner.(*thrownValue); ok {
		return tv.V
	}
	return NewString(inner.Error())
}
