package coop

// State is the lifecycle state of a [Task].
type State uint8

const (
	NotStarted State = iota // Created, never started.
	Running                 // Started and not yet finished; executing or suspended.
	Finished                // Body returned.
)

func (st State) String() string {
	switch st {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	}
	return "State(?)"
}

// A Task is the control block of a cooperatively scheduled task: its stack
// region, its saved-context slot, its body, and its link in a [Scheduler]'s
// run list.
//
// A Task is created with [NewTask] and run with [Scheduler.Start].
// It can be started again after it has finished.
type Task struct {
	stack []byte
	ctx   anchor
	self  *fiber
	body  func()
	state State
	next  *Task
	sched *Scheduler
	ps    panicstack
}

// NewTask creates a [Task] that runs on stack.
//
// stack must be at least MinStackSize bytes long, and both its base
// address and its length must be multiples of StackAlign; [NewStack]
// allocates suitable regions. The task owns stack from the time it is
// started until it finishes.
func NewTask(stack []byte) (*Task, error) {
	if err := checkStack(stack); err != nil {
		return nil, err
	}
	return &Task{stack: stack, self: newFiber()}, nil
}

// Stack returns the stack region t was created with.
func (t *Task) Stack() []byte {
	return t.stack
}

// State returns the lifecycle state of t.
func (t *Task) State() State {
	return t.state
}

// IsRunning reports whether t has been started and its body has not
// returned yet.
func (t *Task) IsRunning() bool {
	return t.state == Running
}

// Start starts t with body and runs it until body first calls
// [Scheduler.Yield], or returns.
//
// If body yields, Start links t into the run list so that each following
// pass resumes it. If body returns without ever yielding, t is finished
// and never linked. If body panics during this first run, t is finished
// and Start panics with an error that wraps the panic value if it is an
// error.
//
// Start must be called by the parent; tasks cannot start tasks.
// t must not be running already.
func (s *Scheduler) Start(t *Task, body func()) {
	switch {
	case body == nil:
		panic("coop: nil task body")
	case t.self == nil:
		panic("coop: task not created by NewTask")
	case s.active != nil:
		panic("coop: Start called from inside a task")
	case t.state == Running:
		panic("coop: task is already running")
	}

	s.init()

	t.sched = s
	t.body = body
	t.state = Running
	t.resetFrame()

	s.bootstrap(&t.ctx, s.parent, (*Task).run, t)

	if t.state != Finished {
		t.next = s.head
		s.head = t
		return
	}

	ps := t.ps
	t.ps = nil
	ps.Repanic()
}

// run is the trampoline every task starts in.
func (t *Task) run() {
	t.sched.active = t
	defer t.finish()
	t.ps.Try(t.body)
}

func (t *Task) finish() {
	s := t.sched
	t.state = Finished
	t.body = nil
	s.active = nil
	s.exit(&t.ctx)
}

// Identity is an opaque, comparable handle to an execution context.
// The zero Identity stands for the parent.
type Identity struct {
	t *Task
}

// IsParent reports whether id stands for the parent.
func (id Identity) IsParent() bool {
	return id.t == nil
}

// Identity returns the handle of t.
func (t *Task) Identity() Identity {
	return Identity{t}
}

// Current returns the handle of the context that is executing: the
// running task's, or the zero Identity if the parent is executing.
func (s *Scheduler) Current() Identity {
	return Identity{s.active}
}
