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

import "fmt"

// Status is the state of a generation task as reported by get_result.
type Status string

const (
	StatusReady            Status = "Ready"
	StatusPending          Status = "Pending"
	StatusProcessing       Status = "Processing"
	StatusError            Status = "Error"
	StatusFailed           Status = "Failed"
	StatusTaskNotFound     Status = "Task not found"
	StatusRequestModerated Status = "Request Moderated"
	StatusContentModerated Status = "Content Moderated"
)

// Done reports whether no further polling can change the status.
func (s Status) Done() bool {
	switch s {
	case StatusReady, StatusError, StatusFailed, StatusTaskNotFound,
		StatusRequestModerated, StatusContentModerated:
		return true
	}
	return false
}

// AsyncResponse is returned when a generation task is submitted.
type AsyncResponse struct {
	ID         string `json:"id"`
	PollingURL string `json:"polling_url"`
}

// SyncResponse is a finished task with its result payload.
type SyncResponse struct {
	ID     string         `json:"id"`
	Result map[string]any `json:"result"`
	Error  string         `json:"error,omitempty"`
}

// ResultResponse is one get_result answer.
type ResultResponse struct {
	ID       string         `json:"id"`
	Status   Status         `json:"status"`
	Result   map[string]any `json:"result,omitempty"`
	Progress *float64       `json:"progress,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Sample returns the signed URL of the generated image, if any.
// The URL expires after ten minutes.
func (r *ResultResponse) Sample() string {
	s, _ := r.Result["sample"].(string)
	return s
}

// Sync converts a Ready result into a SyncResponse.
func (r *ResultResponse) Sync() *SyncResponse {
	return &SyncResponse{ID: r.ID, Result: r.Result, Error: r.Error}
}

// ImageProcessingResponse tracks a task created by ProcessImage.
type ImageProcessingResponse struct {
	TaskID string         `json:"task_id"`
	Status string         `json:"status"`
	Result map[string]any `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func mapField(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func asyncFromMap(m map[string]any) *AsyncResponse {
	return &AsyncResponse{
		ID:         stringField(m, "id"),
		PollingURL: stringField(m, "polling_url"),
	}
}

func resultFromMap(id string, m map[string]any) *ResultResponse {
	r := &ResultResponse{
		ID:     stringField(m, "id"),
		Status: Status(stringField(m, "status")),
		Result: mapField(m, "result"),
		Error:  stringField(m, "error"),
	}
	if r.ID == "" {
		r.ID = id
	}
	if p, ok := m["progress"].(float64); ok {
		r.Progress = &p
	}
	return r
}
