/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// Poll queries the task until it is Ready or reaches another terminal status.
// It waits PollInterval between queries and gives up after PollTimeout.
func (c *Client) Poll(ctx context.Context, task *AsyncResponse) (*ResultResponse, error) {
	return c.PollFunc(ctx, task, nil)
}

// PollFunc is Poll with a callback invoked after every non-terminal answer.
func (c *Client) PollFunc(ctx context.Context, task *AsyncResponse, progress func(*ResultResponse)) (*ResultResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.PollTimeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.cfg.PollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("polling task %s: %w", task.ID, err)
		}
		res, err := c.pollOnce(ctx, task)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Polling API", "id", res.ID, "status", res.Status)

		switch {
		case res.Status == StatusReady:
			return res, nil
		case res.Status.Done():
			return res, &TaskError{ID: res.ID, Status: res.Status, Message: res.Error}
		}
		if progress != nil {
			progress(res)
		}
	}
}

func (c *Client) pollOnce(ctx context.Context, task *AsyncResponse) (*ResultResponse, error) {
	if task.PollingURL == "" {
		return c.GetResult(ctx, task.ID)
	}
	var query url.Values
	if u, err := url.Parse(task.PollingURL); err == nil && u.Query().Get("id") == "" {
		query = url.Values{"id": {task.ID}}
	}
	resp, err := c.request(ctx, http.MethodGet, task.PollingURL, query, nil)
	if err != nil {
		return nil, err
	}
	return resultFromMap(task.ID, resp), nil
}
