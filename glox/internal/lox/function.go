package lox

// callReturn is the non-local jump used to unwind a `return` statement up to
// its enclosing function/method boundary. It is not a user-facing error: the
// interpreter's call machinery recovers it and treats Val as the call result.
type callReturn struct {
	Val interface{}
}

func newCallReturn(val interface{}) *callReturn {
	return &callReturn{Val: val}
}

func (r *callReturn) Error() string { return "return" }

// function is a user-defined Lox function or method: a declaration paired
// with the environment active at its point of declaration (its closure).
type function struct {
	declaration   *FunctionStmt
	closure       *environment
	isInitializer bool
}

func newFunction(declaration *FunctionStmt, closure *environment, isInitializer bool) *function {
	return &function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

func (fn *function) arity() int {
	return len(fn.declaration.Params)
}

func (fn *function) call(in *Interpreter, args []interface{}) (interface{}, error) {
	env := newEnvironment(fn.closure)
	for i, param := range fn.declaration.Params {
		env.define(param.Lexeme, args[i])
	}

	err := in.execBlock(fn.declaration.Body, env)
	if ret, ok := err.(*callReturn); ok {
		if fn.isInitializer {
			return fn.closure.getAt(0, "this"), nil
		}
		return ret.Val, nil
	}
	if err != nil {
		return nil, err
	}

	if fn.isInitializer {
		return fn.closure.getAt(0, "this"), nil
	}
	return nil, nil
}

// bind produces a bound method: a function value whose closure has an extra
// layer defining `this` -> instance, atop the method's original closure. This
// is what makes `this` behave as an ordinary lexically-resolved variable.
func (fn *function) bind(inst *instance) *boundMethod {
	env := newEnvironment(fn.closure)
	env.define("this", inst)
	return &boundMethod{fn: newFunction(fn.declaration, env, fn.isInitializer)}
}

// boundMethod wraps a function whose closure already carries its `this`
// layer. It exists as a distinct type purely so stringify can render bound
// methods the same way as plain functions without exposing bind's internals.
type boundMethod struct {
	fn *function
}

func (b *boundMethod) arity() int { return b.fn.arity() }
func (b *boundMethod) call(in *Interpreter, args []interface{}) (interface{}, error) {
	return b.fn.call(in, args)
}
