package models

// ParamLocation is where a parameter is carried on the wire.
type ParamLocation string

const (
	ParamInPath   ParamLocation = "path"
	ParamInQuery  ParamLocation = "query"
	ParamInHeader ParamLocation = "header"
	ParamInCookie ParamLocation = "cookie"
)

// AuthType is the authentication scheme an endpoint declares.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "api_key"
	AuthOAuth2 AuthType = "oauth2"
)

// Parameter describes a single endpoint parameter.
type Parameter struct {
	Name        string        `json:"name"`
	In          ParamLocation `json:"in"`
	Required    bool          `json:"required"`
	Schema      Schema        `json:"schema,omitempty"`
	Description string        `json:"description,omitempty"`
}

// EndpointSpec is one normalized API operation. It is read-only input to the
// generation pipeline; the pipeline never mutates it.
type EndpointSpec struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	OperationID string            `json:"operation_id,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Auth        AuthType          `json:"auth,omitempty"`
	Parameters  []Parameter       `json:"parameters,omitempty"`
	RequestBody Schema            `json:"request_body,omitempty"`
	Responses   map[string]string `json:"responses,omitempty"`
}

// APISpec is the normalized form of a parsed OpenAPI document.
type APISpec struct {
	Title     string         `json:"title"`
	Version   string         `json:"version"`
	Servers   []string       `json:"servers,omitempty"`
	Endpoints []EndpointSpec `json:"endpoints"`
}
