package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

type client struct {
	base  string
	token string
	http  *http.Client
	out   io.Writer
}

func newClient(ctx *cli.Context) *client {
	return &client{
		base:  strings.TrimRight(ctx.String("server"), "/"),
		token: ctx.String("token"),
		http:  &http.Client{Timeout: 30 * time.Second},
		out:   ctx.App.Writer,
	}
}

// call sends one request and pretty-prints the JSON answer. Non-2xx answers
// become errors carrying the server's error code and description.
func (c *client) call(ctx context.Context, method, path string, query url.Values, body any) error {
	if c.token == "" {
		return fmt.Errorf("a tenant token is required (--token or ORGANMATCH_TOKEN)")
	}
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			if e.ErrorDescription != "" {
				return fmt.Errorf("%s: %s", e.Error, e.ErrorDescription)
			}
			return fmt.Errorf("%s (HTTP %d)", e.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		_, err = c.out.Write(raw)
		return err
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(c.out)
	return err
}
