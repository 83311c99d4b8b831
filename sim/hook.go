package sim

// HookPos identifies where in the engine a hook is fired.
type HookPos struct {
	Name string
}

var (
	// HookPosBeforeEvent fires right before a timer continuation runs.
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}
	// HookPosAfterEvent fires right after a timer continuation returns.
	HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

	// HookPosEnqueue fires when a request joins a resource wait list.
	HookPosEnqueue = &HookPos{Name: "Enqueue"}
	// HookPosGrant fires after a resource is granted to a request.
	HookPosGrant = &HookPos{Name: "Grant"}
	// HookPosRelease fires after a resource holder releases it.
	HookPosRelease = &HookPos{Name: "Release"}
	// HookPosWithdraw fires after a waiting request leaves the wait list
	// without being granted (deadline or interruption).
	HookPosWithdraw = &HookPos{Name: "Withdraw"}
)

// HookCtx holds the information about the site that fired a hook.
type HookCtx struct {
	// Domain is the hookable object raising the hook.
	Domain Hookable

	// Pos identifies the lifecycle stage the hook fires from.
	Pos *HookPos

	// Now is the virtual time at which the hook fires.
	Now float64

	// Item is the subject of the hook (*Timer or *Grant).
	Item any
}

// Hook is a short piece of program invoked by a hookable object.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// Hookable is an object that accepts hooks.
//
// Hooks must be registered before the scheduler starts running; there is no
// removal.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	InvokeHook(ctx HookCtx)
}

// HookableBase provides the hook list bookkeeping for hookable types.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{hookList: make([]Hook, 0)}
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hookList = append(h.hookList, hook)
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
