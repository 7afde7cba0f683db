package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// client talks to a running arena service.
type client struct {
	base  string
	token string
	http  *fasthttp.Client
}

func newClient(base, token string, timeout time.Duration) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

func (c *client) get(path string, out any) error {
	return c.do(fasthttp.MethodGet, path, nil, out)
}

func (c *client) post(path string, body, out any) error {
	return c.do(fasthttp.MethodPost, path, body, out)
}

func (c *client) do(method, path string, body, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(method)
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(raw)
	}

	if err := c.http.Do(req, resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= fasthttp.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body(), &e); err != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(resp.Body()))
		}
		return &apiError{Status: resp.StatusCode(), Message: e.Error}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}
