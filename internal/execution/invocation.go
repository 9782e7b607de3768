package execution

import "context"

// Invocation names the runner and test a command was built for
type Invocation struct {
	Runner string
	Test   string
}

type invocationKey struct{}

// WithInvocation labels ctx with the invocation about to be executed
func WithInvocation(ctx context.Context, inv Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// InvocationFrom returns the label set by WithInvocation
func InvocationFrom(ctx context.Context) (Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(Invocation)
	return inv, ok
}

type executorKey struct{}

// WithExecutor makes exec run every command issued under ctx
func WithExecutor(ctx context.Context, exec Executor) context.Context {
	return context.WithValue(ctx, executorKey{}, exec)
}

// ExecutorFrom returns the executor set by WithExecutor
func ExecutorFrom(ctx context.Context) (Executor, bool) {
	exec, ok := ctx.Value(executorKey{}).(Executor)
	return exec, ok && exec != nil
}
