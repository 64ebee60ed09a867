package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/masseyis/tdg/pkg/models"
)

const collectionSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

type collection struct {
	Info     collectionInfo `json:"info"`
	Item     []folder       `json:"item"`
	Variable []variable     `json:"variable"`
}

type collectionInfo struct {
	PostmanID   string `json:"_postman_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

type variable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type folder struct {
	Name string `json:"name"`
	Item []item `json:"item"`
}

type item struct {
	Name     string  `json:"name"`
	Request  request `json:"request"`
	Response []any   `json:"response"`
	Event    []event `json:"event"`
}

type request struct {
	Method string   `json:"method"`
	Header []header `json:"header"`
	URL    urlSpec  `json:"url"`
	Body   *reqBody `json:"body,omitempty"`
}

type header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type urlSpec struct {
	Raw   string       `json:"raw"`
	Host  []string     `json:"host"`
	Path  []string     `json:"path"`
	Query []queryParam `json:"query"`
}

type queryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type reqBody struct {
	Mode    string      `json:"mode"`
	Raw     string      `json:"raw"`
	Options bodyOptions `json:"options"`
}

type bodyOptions struct {
	Raw rawOptions `json:"raw"`
}

type rawOptions struct {
	Language string `json:"language"`
}

type event struct {
	Listen string `json:"listen"`
	Script script `json:"script"`
}

type script struct {
	Exec []string `json:"exec"`
	Type string   `json:"type"`
}

// Postman renders the result as a Postman v2.1 collection: one folder per
// endpoint in first-appearance order, requests fully populated, and a
// status-assertion test script on every item. The collection variables
// match the credential placeholders the generator writes into headers.
func Postman(result *models.GenerationResult, name string) ([]byte, error) {
	if name == "" {
		name = "Generated API Tests"
	}

	col := collection{
		Info: collectionInfo{
			PostmanID:   uuid.New().String(),
			Name:        name,
			Description: "Generated test collection",
			Schema:      collectionSchema,
		},
		Item: []folder{},
		Variable: []variable{
			{Key: "baseUrl", Value: "http://localhost:8080", Type: "string"},
			{Key: "access_token", Value: "", Type: "string"},
			{Key: "credentials", Value: "", Type: "string"},
			{Key: "api_key", Value: "", Type: "string"},
		},
	}

	folders := make(map[string]int)
	for _, c := range result.Cases {
		key := c.Method + " " + c.Path
		i, ok := folders[key]
		if !ok {
			i = len(col.Item)
			folders[key] = i
			col.Item = append(col.Item, folder{Name: key, Item: []item{}})
		}
		it, err := requestItem(c)
		if err != nil {
			return nil, fmt.Errorf("rendering case %q: %w", c.Name, err)
		}
		col.Item[i].Item = append(col.Item[i].Item, it)
	}

	return json.MarshalIndent(col, "", "  ")
}

func requestItem(c models.TestCase) (item, error) {
	path := c.Path
	for name, value := range c.PathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", fmt.Sprint(value))
	}

	u := urlSpec{
		Raw:   "{{baseUrl}}" + path,
		Host:  []string{"{{baseUrl}}"},
		Path:  strings.Split(strings.Trim(path, "/"), "/"),
		Query: []queryParam{},
	}
	queryKeys := make([]string, 0, len(c.QueryParams))
	for k := range c.QueryParams {
		queryKeys = append(queryKeys, k)
	}
	sort.Strings(queryKeys)
	for _, k := range queryKeys {
		u.Query = append(u.Query, queryParam{Key: k, Value: fmt.Sprint(c.QueryParams[k])})
	}

	req := request{Method: c.Method, Header: []header{}, URL: u}
	headerKeys := make([]string, 0, len(c.Headers))
	for k := range c.Headers {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)
	for _, k := range headerKeys {
		req.Header = append(req.Header, header{Key: k, Value: c.Headers[k]})
	}

	if c.Body != nil {
		raw, err := json.MarshalIndent(c.Body, "", "  ")
		if err != nil {
			return item{}, err
		}
		req.Body = &reqBody{
			Mode:    "raw",
			Raw:     string(raw),
			Options: bodyOptions{Raw: rawOptions{Language: "json"}},
		}
	}

	return item{
		Name:     c.Name,
		Request:  req,
		Response: []any{},
		Event: []event{{
			Listen: "test",
			Script: script{Exec: testScript(c.ExpectedStatus), Type: "text/javascript"},
		}},
	}, nil
}

func testScript(status int) []string {
	return []string{
		fmt.Sprintf("pm.test(\"Status code is %d\", function () {", status),
		fmt.Sprintf("    pm.response.to.have.status(%d);", status),
		"});",
		"",
		"pm.test(\"Response time is below 1000ms\", function () {",
		"    pm.expect(pm.response.responseTime).to.be.below(1000);",
		"});",
	}
}
