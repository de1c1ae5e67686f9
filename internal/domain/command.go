package domain

// Intent is the classified purpose of one chat message.
type Intent string

const (
	IntentSearch  Intent = "search"
	IntentAdd     Intent = "add"
	IntentCart    Intent = "cart"
	IntentResults Intent = "results"
	IntentStatus  Intent = "status"
	IntentHelp    Intent = "help"
	IntentUnknown Intent = "unknown"
)

// Selection names the items an "add" command refers to: either everything
// from the last results or an ordered set of 1-based indices.
type Selection struct {
	All     bool  `json:"all"`
	Indices []int `json:"indices,omitempty"`
}

// Command is the structured interpretation of one chat message.
type Command struct {
	Intent Intent `json:"intent"`
	Raw    string `json:"raw"`

	// Search payload.
	Query           string  `json:"query,omitempty"`
	Budget          float64 `json:"budget,omitempty"`
	BudgetSpecified bool    `json:"budgetSpecified"`

	// Add payload.
	Items Selection `json:"items"`
}
