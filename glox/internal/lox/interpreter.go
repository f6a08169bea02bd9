package lox

import (
	"fmt"
	"io"
)

// maxCallDepth bounds user-visible recursion. Go's own stack growth handles
// ordinary recursion, but an unbounded Lox program would eventually crash the
// host process with a fatal, unrecoverable stack fault; counting call
// boundaries lets the interpreter report "Stack overflow." instead and keep
// the REPL alive for the next line.
const maxCallDepth = 1024

// Interpreter exposes methods for evaluating the given Lox syntax tree. This
// struct implements ExprVisitor and StmtVisitor.
type Interpreter struct {
	globals     *environment
	environment *environment
	locals      map[Expr]int
	output      io.Writer
	reporter    Reporter
	isREPL      bool
	callDepth   int
}

func NewInterpreter(output io.Writer, reporter Reporter, isREPL bool) *Interpreter {
	env := newEnvironment(nil)
	defineNatives(env)

	interpreter := new(Interpreter)
	interpreter.globals = env
	interpreter.environment = env
	interpreter.locals = make(map[Expr]int)
	interpreter.output = output
	interpreter.reporter = reporter
	interpreter.isREPL = isREPL
	return interpreter
}

// resolve records the lexical distance the resolver computed for expr. It is
// the one method the resolver calls on the interpreter; everything else
// flows the other way, from interpreter to the side-table it owns.
func (in *Interpreter) resolve(expr Expr, steps int) {
	in.locals[expr] = steps
}

// Interpret runs a program's statements in order. A runtime error stops the
// remaining statements of this run; it does not abort the hosting process.
func (in *Interpreter) Interpret(statements []Stmt) {
	for _, stmt := range statements {
		if _, err := in.exec(stmt); err != nil {
			in.reporter.Report(err)
			break
		}
	}
}

func (in *Interpreter) VisitBlockStmt(stmt *BlockStmt) (interface{}, error) {
	return nil, in.execBlock(stmt.Stmts, newEnvironment(in.environment))
}

func (in *Interpreter) VisitExprStmt(stmt *ExprStmt) (interface{}, error) {
	expr, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	if in.isREPL {
		switch stmt.Expr.(type) {
		case *AssignExpr, *CallExpr:
			/* expressions of these types are not printed */
		default:
			fmt.Fprintln(in.output, stringify(expr))
		}
	}
	return nil, nil
}

func (in *Interpreter) VisitClassStmt(stmt *ClassStmt) (interface{}, error) {
	var super *class
	if stmt.Super != nil {
		superObj, err := in.eval(stmt.Super)
		if err != nil {
			return nil, err
		}

		var isClass bool
		super, isClass = superObj.(*class)
		if !isClass {
			return nil, newRuntimeError(stmt.Super.Name, "Superclass must be a class.")
		}

		// This env holds a reference to the superclass of this class; the
		// reference never changes. Every method the class gives out has this
		// env attached to its closure.
		in.environment = newEnvironment(in.environment)
		in.environment.define("super", super)
	}

	methods := make(map[string]*function)
	for _, method := range stmt.Methods {
		isInitializer := method.Name.Lexeme == "init"
		fn := newFunction(method, in.environment, isInitializer)
		methods[method.Name.Lexeme] = fn
	}
	cls := newClass(stmt.Name.Lexeme, super, methods)
	if super != nil {
		// pop the environment holding the superclass reference
		in.environment = in.environment.enclosing
	}
	in.environment.define(stmt.Name.Lexeme, cls)
	return nil, nil
}

func (in *Interpreter) VisitFunctionStmt(stmt *FunctionStmt) (interface{}, error) {
	fn := newFunction(stmt, in.environment, false)
	in.environment.define(stmt.Name.Lexeme, fn)
	return nil, nil
}

func (in *Interpreter) VisitIfStmt(stmt *IfStmt) (interface{}, error) {
	cond, err := in.eval(stmt.Cond)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return in.exec(stmt.ThenBranch)
	} else if stmt.ElseBranch != nil {
		return in.exec(stmt.ElseBranch)
	}
	return nil, nil
}

func (in *Interpreter) VisitPrintStmt(stmt *PrintStmt) (interface{}, error) {
	expr, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(in.output, stringify(expr))
	return nil, nil
}

func (in *Interpreter) VisitVarStmt(stmt *VarStmt) (interface{}, error) {
	var initVal interface{}
	if stmt.Init != nil {
		var err error
		initVal, err = in.eval(stmt.Init)
		if err != nil {
			return nil, err
		}
	}
	in.environment.define(stmt.Name.Lexeme, initVal)
	return nil, nil
}

func (in *Interpreter) VisitReturnStmt(stmt *ReturnStmt) (interface{}, error) {
	var val interface{}
	var err error
	if stmt.Val != nil {
		val, err = in.eval(stmt.Val)
		if err != nil {
			return nil, err
		}
	}
	return nil, newCallReturn(val)
}

func (in *Interpreter) VisitWhileStmt(stmt *WhileStmt) (interface{}, error) {
	for {
		cond, err := in.eval(stmt.Cond)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return nil, nil
		}
		if _, err := in.exec(stmt.Body); err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}

	if steps, ok := in.locals[expr]; ok {
		in.environment.assignAt(steps, expr.Name, val)
		return val, nil
	}
	return val, in.globals.assign(expr.Name, val)
}

func (in *Interpreter) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := in.eval(expr.Rhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Type {
	case BangEqual:
		return !isEqual(lhs, rhs), nil
	case EqualEqual:
		return isEqual(lhs, rhs), nil

	case Greater:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l > r, nil

	case GreaterEqual:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l >= r, nil

	case Less:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l < r, nil

	case LessEqual:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l <= r, nil

	case Minus:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l - r, nil

	case Plus:
		if lStr, lOk := lhs.(string); lOk {
			if rStr, rOk := rhs.(string); rOk {
				return lStr + rStr, nil
			}
		}
		if l, r, ok := bothNumbers(lhs, rhs); ok {
			return l + r, nil
		}
		return nil, newRuntimeError(expr.Op, "Operand must be number or strings.")

	case Slash:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l / r, nil

	case Star:
		l, r, ok := bothNumbers(lhs, rhs)
		if !ok {
			return nil, newRuntimeError(expr.Op, "Operand must be a number.")
		}
		return l * r, nil
	}
	panic("unreachable binary operator")
}

func bothNumbers(lhs, rhs interface{}) (float64, float64, bool) {
	l, lOk := lhs.(float64)
	r, rOk := rhs.(float64)
	return l, r, lOk && rOk
}

func (in *Interpreter) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	callee, err := in.eval(expr.Callee)
	if err != nil {
		return nil, err
	}

	// Arguments are evaluated left-to-right, after the callee and before the
	// call body begins; this is user-visible because arguments can have
	// side effects.
	var args []interface{}
	for _, arg := range expr.Args {
		argVal, err := in.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, argVal)
	}

	call, isCallable := callee.(callable)
	if !isCallable {
		return nil, newRuntimeError(expr.Paren, "Can only call functions and classes.")
	}
	if len(args) != call.arity() {
		return nil, newRuntimeError(expr.Paren, fmt.Sprintf(
			"Expected %d arguments but got %d.", call.arity(), len(args),
		))
	}

	if in.callDepth >= maxCallDepth {
		return nil, newRuntimeError(expr.Paren, "Stack overflow.")
	}
	in.callDepth++
	defer func() { in.callDepth-- }()

	return call.call(in, args)
}

func (in *Interpreter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}

	if inst, ok := obj.(*instance); ok {
		return inst.get(expr.Name)
	}
	return nil, newRuntimeError(expr.Name, "Only instances have properties.")
}

func (in *Interpreter) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	return in.eval(expr.Expr)
}

func (in *Interpreter) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return expr.Val, nil
}

func (in *Interpreter) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Type {
	case Or:
		if truthy(lhs) {
			return lhs, nil
		}
	case And:
		if !truthy(lhs) {
			return lhs, nil
		}
	default:
		panic("unreachable logical operator")
	}

	return in.eval(expr.Rhs)
}

func (in *Interpreter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	// Runtime order is object, then value (spec-mandated; the resolver keeps
	// the same order so static and dynamic evaluation order never diverge).
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}

	inst, ok := obj.(*instance)
	if !ok {
		return nil, newRuntimeError(expr.Name, "Only instances have fields.")
	}

	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}
	inst.set(expr.Name, val)
	return val, nil
}

func (in *Interpreter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	// There's no convenient node for the resolver to hang `this`'s resolution
	// steps on in a super expression, but the environment holding `this` is
	// always exactly one scope closer than the one holding `super`, by
	// construction of the class-resolution layering.
	steps := in.locals[expr]
	super := in.environment.getAt(steps, "super").(*class)
	this := in.environment.getAt(steps-1, "this").(*instance)

	method, hasMethod := super.findMethod(expr.Method.Lexeme)
	if !hasMethod {
		return nil, newRuntimeError(expr.Method, fmt.Sprintf(
			"Undefined property '%s'.", expr.Method.Lexeme,
		))
	}
	return method.bind(this), nil
}

func (in *Interpreter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return in.lookUpVar(expr.Keyword, expr)
}

func (in *Interpreter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	exprVal, err := in.eval(expr.Expr)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Type {
	case Bang:
		return !truthy(exprVal), nil
	case Minus:
		if exprNum, ok := exprVal.(float64); ok {
			return -exprNum, nil
		}
		return nil, newRuntimeError(expr.Op, "Operand must be a number.")
	}
	panic("unreachable unary operator")
}

func (in *Interpreter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return in.lookUpVar(expr.Name, expr)
}

func (in *Interpreter) execBlock(statements []Stmt, env *environment) error {
	prevEnv := in.environment
	in.environment = env
	defer func() {
		in.environment = prevEnv
	}()
	for _, stmt := range statements {
		if _, err := in.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(stmt Stmt) (interface{}, error) {
	return stmt.Accept(in)
}

func (in *Interpreter) eval(expr Expr) (interface{}, error) {
	return expr.Accept(in)
}

func (in *Interpreter) lookUpVar(name *Token, expr Expr) (interface{}, error) {
	if steps, ok := in.locals[expr]; ok {
		return in.environment.getAt(steps, name.Lexeme), nil
	}
	return in.globals.get(name)
}
