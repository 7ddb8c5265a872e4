package roster

const (
	defaultBaseURL = "https://fsa-puppy-bowl.herokuapp.com/api"
	defaultCohort  = "2501-ftb-et-web-pt"
	playersPath    = "/players"
	// maxErrorBody caps how much of a failed response is kept on the error.
	maxErrorBody = 512
)
