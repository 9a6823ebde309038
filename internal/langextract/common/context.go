package common

// Frame is one entry in a Context stack: the enclosing function/method
// being walked, whether it is async, its enclosing class/impl name, and
// loop nesting depth at this point in the walk. Pushed/popped by value —
// Context carries no pointers back into the tree, only names, so it
// remains valid after the node it was built from is gone.
type Frame struct {
	FunctionName   string
	Async          bool
	EnclosingClass string
	LoopDepth      int
}

// Context is the explicit, stack-threaded traversal context described in
// spec.md §4.1: "Context is never global; it is threaded explicitly
// through the walk." Grounded on the teacher's VisitContext
// (internal/parser/parser.go): a slice-backed stack with push/pop and a
// query for "am I inside a frame with property X", plus a one-shot flag
// for await/yield/defer wrappers consulted at call-site emission.
type Context struct {
	stack      []Frame
	awaitOnce  bool // one-shot: set on entering an await/yield/defer node, consulted then cleared by the caller
}

// NewContext returns an empty traversal context.
func NewContext() *Context {
	return &Context{stack: make([]Frame, 0, 8)}
}

// Push enters a new function-defining node's scope.
func (c *Context) Push(f Frame) {
	c.stack = append(c.stack, f)
}

// Pop leaves the current function-defining node's scope.
func (c *Context) Pop() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// Current returns the innermost frame, or the zero Frame if the stack is
// empty (module/file scope).
func (c *Context) Current() Frame {
	if len(c.stack) == 0 {
		return Frame{}
	}
	return c.stack[len(c.stack)-1]
}

// InFunction reports whether the walk is currently inside any function.
func (c *Context) InFunction() bool {
	return len(c.stack) > 0
}

// EnterLoop increments the current frame's loop depth for the duration of
// a loop body walk; call ExitLoop when leaving it.
func (c *Context) EnterLoop() {
	if len(c.stack) == 0 {
		c.stack = append(c.stack, Frame{})
	}
	c.stack[len(c.stack)-1].LoopDepth++
}

// ExitLoop decrements the current frame's loop depth.
func (c *Context) ExitLoop() {
	if len(c.stack) > 0 && c.stack[len(c.stack)-1].LoopDepth > 0 {
		c.stack[len(c.stack)-1].LoopDepth--
	}
}

// InLoop reports whether the walk is currently inside a loop body.
func (c *Context) InLoop() bool {
	return len(c.stack) > 0 && c.stack[len(c.stack)-1].LoopDepth > 0
}

// SetAwait sets the one-shot await/yield/defer flag, consulted by
// call-site emission and cleared by TakeAwait.
func (c *Context) SetAwait() {
	c.awaitOnce = true
}

// TakeAwait reads and clears the one-shot await flag.
func (c *Context) TakeAwait() bool {
	v := c.awaitOnce
	c.awaitOnce = false
	return v
}
