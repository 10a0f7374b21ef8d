package port

import "context"

// StepRunner receives repair-flow step triggers from the controller. The
// shell's implementation surfaces the step in the control bar; the flow
// logic itself lives outside this process.
type StepRunner interface {
	TriggerStep(ctx context.Context, step string) error
}
