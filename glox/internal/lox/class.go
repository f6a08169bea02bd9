package lox

// class is a Lox class object: a name, its own methods, and an optional
// superclass to continue the search in.
type class struct {
	name       string
	superclass *class
	methods    map[string]*function
}

func newClass(name string, superclass *class, methods map[string]*function) *class {
	return &class{name: name, superclass: superclass, methods: methods}
}

// findMethod searches this class, then its superclass chain, for a method
// declared with the given name. It does not bind the method to an instance.
func (c *class) findMethod(name string) (*function, bool) {
	if fn, ok := c.methods[name]; ok {
		return fn, true
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil, false
}

// arity is the arity of `init`, or 0 if the class has no initializer.
func (c *class) arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.arity()
	}
	return 0
}

// call instantiates the class: a fresh instance is created, `init` (if any)
// is bound to it and invoked, and the instance is always what's returned
// regardless of what `init` itself returns.
func (c *class) call(in *Interpreter, args []interface{}) (interface{}, error) {
	inst := newInstance(c)
	if init, ok := c.findMethod("init"); ok {
		if _, err := init.bind(inst).call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// instance is a Lox class instance: a reference to its class plus a mutable
// field map. Fields are checked before methods on property access, and
// writes always land on the field map, even when that shadows a method.
type instance struct {
	class  *class
	fields map[string]interface{}
}

func newInstance(c *class) *instance {
	return &instance{class: c, fields: make(map[string]interface{})}
}

func (i *instance) get(name *Token) (interface{}, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}
	if method, ok := i.class.findMethod(name.Lexeme); ok {
		return method.bind(i), nil
	}
	return nil, newRuntimeError(name, "Undefined property '"+name.Lexeme+"'.")
}

func (i *instance) set(name *Token, val interface{}) {
	i.fields[name.Lexeme] = val
}
