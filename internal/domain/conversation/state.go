package conversation

// State is the step an operator dialog is waiting on.
type State string

const (
	StateIdle State = ""

	StateAwaitingDate        State = "AWAITING_DATE"
	StateAwaitingSubject     State = "AWAITING_SUBJECT"
	StateAwaitingDescription State = "AWAITING_DESCRIPTION"
	StateAwaitingAttachments State = "AWAITING_ATTACHMENTS"

	StateAwaitingDeleteDate    State = "AWAITING_DELETE_DATE"
	StateAwaitingDeleteSubject State = "AWAITING_DELETE_SUBJECT"

	StateAwaitingScheduleDay  State = "AWAITING_SCHEDULE_DAY"
	StateAwaitingScheduleText State = "AWAITING_SCHEDULE_TEXT"

	StateAwaitingBroadcastContent State = "AWAITING_BROADCAST_CONTENT"
)

// Workflow names the dialog a state belongs to.
type Workflow string

const (
	WorkflowNone           Workflow = ""
	WorkflowAddHomework    Workflow = "add_homework"
	WorkflowDeleteHomework Workflow = "delete_homework"
	WorkflowEditSchedule   Workflow = "edit_schedule"
	WorkflowBroadcast      Workflow = "broadcast"
)

func (s State) Workflow() Workflow {
	switch s {
	case StateAwaitingDate, StateAwaitingSubject, StateAwaitingDescription, StateAwaitingAttachments:
		return WorkflowAddHomework
	case StateAwaitingDeleteDate, StateAwaitingDeleteSubject:
		return WorkflowDeleteHomework
	case StateAwaitingScheduleDay, StateAwaitingScheduleText:
		return WorkflowEditSchedule
	case StateAwaitingBroadcastContent:
		return WorkflowBroadcast
	default:
		return WorkflowNone
	}
}

// AllActiveStates lists every non-idle state.
func AllActiveStates() []State {
	return []State{
		StateAwaitingDate, StateAwaitingSubject, StateAwaitingDescription, StateAwaitingAttachments,
		StateAwaitingDeleteDate, StateAwaitingDeleteSubject,
		StateAwaitingScheduleDay, StateAwaitingScheduleText,
		StateAwaitingBroadcastContent,
	}
}
