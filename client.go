package octopusenergy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
)

const (
	apiHost  = "api.octopus.energy"
	basePath = "/v1"

	// periodFormat is the timestamp format the API expects for the
	// period_from/period_to query parameters.
	periodFormat = "2006-01-02T15:04:05Z"
)

var (
	schemes   = []string{"https"}
	jsonMedia = []string{"application/json"}
)

// ErrMissingAPIKey is returned when a Client is constructed without a credential.
var ErrMissingAPIKey = errors.New("octopus API key is not set")

// Client talks to the Octopus Energy REST and GraphQL APIs.
type Client struct {
	// Location is the wall clock zone used when partitioning day/night
	// rates. Defaults to time.Local.
	Location *time.Location

	rest    *httptransport.Runtime
	graphql *httptransport.Runtime
	apiKey  string
}

// NewClient creates a Client with pre-configured authentication. The REST
// endpoints use basic auth with the API key as the username and an empty
// password; the GraphQL endpoint authenticates per call with a kraken token.
func NewClient(rt http.RoundTripper, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	rest := httptransport.New(apiHost, basePath, schemes)
	rest.Transport = rt
	rest.DefaultAuthentication = httptransport.BasicAuth(apiKey, "")

	graphql := httptransport.New(apiHost, basePath, schemes)
	graphql.Transport = rt

	return &Client{
		Location: time.Local,
		rest:     rest,
		graphql:  graphql,
		apiKey:   apiKey,
	}, nil
}

// operationURL renders the absolute URL of an operation for log and error
// messages.
func operationURL(pathPattern string, pathParams map[string]string, query url.Values) string {
	p := pathPattern
	for k, v := range pathParams {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	u := url.URL{Scheme: schemes[0], Host: apiHost, Path: basePath + p}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func formatPeriod(t time.Time) string {
	return t.UTC().Format(periodFormat)
}

// jsonResponseReader decodes a response body into a fresh target, applying
// the soft-failure policy for server errors: a 5xx status yields the
// operation's default value instead of an error, while a body that fails to
// decode on any other status is fatal for the call.
type jsonResponseReader struct {
	url        string
	defaultVal interface{}
	newTarget  func() interface{}
}

func (r *jsonResponseReader) ReadResponse(resp runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
	if resp.Code() >= 500 {
		log.Printf("Server error (%d): %s", resp.Code(), r.url)
		return r.defaultVal, nil
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", r.url, err)
	}

	target := r.newTarget()
	if err := consumer.Consume(bytes.NewReader(body), target); err != nil {
		return nil, fmt.Errorf("failed to extract response json from %s: %w; body: %s", r.url, err, body)
	}

	return target, nil
}

// getJSON submits a windowed GET against the REST API and decodes the
// response envelope.
func (c *Client) getJSON(op *restOperation) (interface{}, error) {
	return c.rest.Submit(&runtime.ClientOperation{
		ID:                 op.id,
		Method:             http.MethodGet,
		PathPattern:        op.pathPattern,
		ProducesMediaTypes: jsonMedia,
		ConsumesMediaTypes: jsonMedia,
		Schemes:            schemes,
		Context:            op.ctx,
		Params: runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
			for k, v := range op.pathParams {
				if err := req.SetPathParam(k, v); err != nil {
					return err
				}
			}
			for k, v := range op.query {
				if err := req.SetQueryParam(k, v...); err != nil {
					return err
				}
			}
			return nil
		}),
		Reader: &jsonResponseReader{
			url:        op.url(),
			defaultVal: op.defaultVal,
			newTarget:  op.newTarget,
		},
	})
}

type restOperation struct {
	ctx         context.Context
	id          string
	pathPattern string
	pathParams  map[string]string
	query       url.Values
	defaultVal  interface{}
	newTarget   func() interface{}
}

func (op *restOperation) url() string {
	return operationURL(op.pathPattern, op.pathParams, op.query)
}

func periodQuery(periodFrom, periodTo time.Time) url.Values {
	return url.Values{
		"period_from": []string{formatPeriod(periodFrom)},
		"period_to":   []string{formatPeriod(periodTo)},
	}
}
