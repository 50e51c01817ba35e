package domain

// GateInput is the document a policy engine sees when deciding a gate.
type GateInput struct {
	Gate          Gate          `json:"gate"`
	Identity      *GateIdentity `json:"identity,omitempty"`
	RouteUsername string        `json:"route_username,omitempty"`
}

type GateIdentity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type GateDecision struct {
	Allow bool   `json:"allow"`
	Code  string `json:"code,omitempty"`
}
