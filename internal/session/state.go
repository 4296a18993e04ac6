package session

// State is where the interactive loop currently is
type State int

const (
	MainMenu State = iota
	AwaitingCommandInput
	AwaitingConfirmation
	Executing
	AwaitingAIQuery
	QueryingAI
	ShowingResult
	Exited
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main-menu"
	case AwaitingCommandInput:
		return "awaiting-command-input"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	case Executing:
		return "executing"
	case AwaitingAIQuery:
		return "awaiting-ai-query"
	case QueryingAI:
		return "querying-ai"
	case ShowingResult:
		return "showing-result"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}
