package ai

// FunctionChoice controls whether the backend may invoke registered tool
// functions on its own during a completion.
type FunctionChoice string

// FunctionChoiceAuto lets the model decide which offered tools to call.
const FunctionChoiceAuto FunctionChoice = "auto"

// ExecutionSettings is the fixed configuration applied to every backend
// invocation. It does not vary per session or per user.
type ExecutionSettings struct {
	FunctionChoice  FunctionChoice
	ExcludedPlugins []string
}

// DefaultExecutionSettings enables automatic tool invocation while keeping
// the ChatBot plugin out of the model's reach.
func DefaultExecutionSettings() ExecutionSettings {
	return ExecutionSettings{
		FunctionChoice:  FunctionChoiceAuto,
		ExcludedPlugins: []string{"ChatBot"},
	}
}
