// Package openapi normalizes OpenAPI 3.x documents into the endpoint list
// the generation core consumes. The core itself never parses documents.
package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/masseyis/tdg/pkg/models"
	"gopkg.in/yaml.v3"
)

// methodOrder fixes the walk order per path so the same document always
// yields the same endpoint sequence.
var methodOrder = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Parse decodes a JSON or YAML OpenAPI 3.x document and flattens its
// paths into endpoint specs: one per path+method, with path-level and
// operation-level parameters merged and $ref nodes resolved against
// #/components.
func Parse(raw []byte) (*models.APISpec, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		if yerr := yaml.Unmarshal(raw, &doc); yerr != nil {
			return nil, fmt.Errorf("parsing OpenAPI document: %w", yerr)
		}
	}

	if _, ok := doc["swagger"]; ok {
		return nil, fmt.Errorf("unsupported document: Swagger 2.0 is not supported, use OpenAPI 3.x")
	}
	if v, ok := doc["openapi"].(string); ok && !strings.HasPrefix(v, "3") {
		return nil, fmt.Errorf("unsupported OpenAPI version %q", v)
	}

	paths, ok := doc["paths"].(map[string]any)
	if !ok || len(paths) == 0 {
		return nil, fmt.Errorf("document has no paths")
	}

	r := &resolver{doc: doc}
	spec := &models.APISpec{}

	if info, ok := doc["info"].(map[string]any); ok {
		spec.Title, _ = info["title"].(string)
		spec.Version, _ = info["version"].(string)
	}
	if servers, ok := doc["servers"].([]any); ok {
		for _, s := range servers {
			if server, ok := s.(map[string]any); ok {
				if url, ok := server["url"].(string); ok {
					spec.Servers = append(spec.Servers, url)
				}
			}
		}
	}

	pathKeys := make([]string, 0, len(paths))
	for path := range paths {
		pathKeys = append(pathKeys, path)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		pathItem, ok := r.resolve(paths[path], map[string]bool{}).(map[string]any)
		if !ok {
			continue
		}
		for _, method := range methodOrder {
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}
			spec.Endpoints = append(spec.Endpoints, endpoint(path, method, op, pathItem, doc))
		}
	}

	if len(spec.Endpoints) == 0 {
		return nil, fmt.Errorf("document declares no operations")
	}
	return spec, nil
}

func endpoint(path, method string, op, pathItem, doc map[string]any) models.EndpointSpec {
	e := models.EndpointSpec{
		Method: strings.ToUpper(method),
		Path:   path,
		Auth:   auth(op, doc),
	}

	e.OperationID, _ = op["operationId"].(string)
	e.Summary, _ = op["summary"].(string)
	if tags, ok := op["tags"].([]any); ok {
		for _, t := range tags {
			if tag, ok := t.(string); ok {
				e.Tags = append(e.Tags, tag)
			}
		}
	}

	e.Parameters = parameters(pathItem, op)
	e.RequestBody = requestBody(op)
	e.Responses = responses(op)
	return e
}

// parameters merges path-level and operation-level parameters. An
// operation parameter overrides a path-level one with the same name and
// location.
func parameters(pathItem, op map[string]any) []models.Parameter {
	var merged []models.Parameter
	index := make(map[string]int)

	add := func(raw any) {
		m, ok := raw.(map[string]any)
		if !ok {
			return
		}
		p := parameter(m)
		if p.Name == "" {
			return
		}
		key := p.Name + "|" + string(p.In)
		if i, seen := index[key]; seen {
			merged[i] = p
			return
		}
		index[key] = len(merged)
		merged = append(merged, p)
	}

	if params, ok := pathItem["parameters"].([]any); ok {
		for _, raw := range params {
			add(raw)
		}
	}
	if params, ok := op["parameters"].([]any); ok {
		for _, raw := range params {
			add(raw)
		}
	}
	return merged
}

func parameter(m map[string]any) models.Parameter {
	p := models.Parameter{}
	p.Name, _ = m["name"].(string)
	if in, ok := m["in"].(string); ok {
		p.In = models.ParamLocation(in)
	}
	p.Required, _ = m["required"].(bool)
	if p.In == models.ParamInPath {
		// Path parameters are always required; tolerate documents that
		// omit the flag.
		p.Required = true
	}
	if schema, ok := m["schema"].(map[string]any); ok {
		p.Schema = models.Schema(schema)
	}
	p.Description, _ = m["description"].(string)
	return p
}

func requestBody(op map[string]any) models.Schema {
	rb, ok := op["requestBody"].(map[string]any)
	if !ok {
		return nil
	}
	content, ok := rb["content"].(map[string]any)
	if !ok {
		return nil
	}
	media, ok := content["application/json"].(map[string]any)
	if !ok {
		return nil
	}
	schema, ok := media["schema"].(map[string]any)
	if !ok {
		return nil
	}
	return models.Schema(schema)
}

func responses(op map[string]any) map[string]string {
	raw, ok := op["responses"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for code, v := range raw {
		if resp, ok := v.(map[string]any); ok {
			desc, _ := resp["description"].(string)
			out[code] = desc
		}
	}
	return out
}

// auth maps the operation's effective security requirement onto an auth
// type. Operation-level security overrides document-level; an explicit
// empty list means no auth.
func auth(op, doc map[string]any) models.AuthType {
	security, declared := op["security"].([]any)
	if !declared {
		if _, present := op["security"]; present {
			return models.AuthNone
		}
		security, _ = doc["security"].([]any)
	}
	if len(security) == 0 {
		return models.AuthNone
	}

	requirement, ok := security[0].(map[string]any)
	if !ok || len(requirement) == 0 {
		return models.AuthNone
	}
	names := make([]string, 0, len(requirement))
	for name := range requirement {
		names = append(names, name)
	}
	sort.Strings(names)

	scheme := securityScheme(doc, names[0])
	if scheme == nil {
		return models.AuthNone
	}

	switch scheme["type"] {
	case "http":
		switch scheme["scheme"] {
		case "bearer":
			return models.AuthBearer
		case "basic":
			return models.AuthBasic
		}
	case "apiKey":
		return models.AuthAPIKey
	case "oauth2", "openIdConnect":
		return models.AuthOAuth2
	}
	return models.AuthNone
}

func securityScheme(doc map[string]any, name string) map[string]any {
	components, ok := doc["components"].(map[string]any)
	if !ok {
		return nil
	}
	schemes, ok := components["securitySchemes"].(map[string]any)
	if !ok {
		return nil
	}
	r := &resolver{doc: doc}
	scheme, _ := r.resolve(schemes[name], map[string]bool{}).(map[string]any)
	return scheme
}

// resolver expands $ref nodes against the enclosing document.
type resolver struct {
	doc map[string]any
}

// resolve deep-copies node with every $ref replaced by its target. seen
// breaks reference cycles: a schema that eventually references itself
// resolves to an empty schema at the point of recursion. YAML mappings
// with non-string keys (unquoted status codes) are normalized to
// string-keyed maps on the way through.
func (r *resolver) resolve(node any, seen map[string]bool) any {
	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok {
			if seen[ref] {
				return map[string]any{}
			}
			seen[ref] = true
			resolved := r.resolve(r.lookup(ref), seen)
			delete(seen, ref)
			return resolved
		}
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = r.resolve(v, seen)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[fmt.Sprint(k)] = v
		}
		return r.resolve(out, seen)
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = r.resolve(v, seen)
		}
		return out
	default:
		return node
	}
}

// lookup follows a local JSON pointer like #/components/schemas/Pet.
// External references are not supported and resolve to nothing.
func (r *resolver) lookup(ref string) any {
	if !strings.HasPrefix(ref, "#/") {
		return nil
	}
	var node any = r.doc
	for _, part := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[part]
		if !ok {
			return nil
		}
	}
	return node
}
