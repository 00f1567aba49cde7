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
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every APIError.
	ErrTransport = errors.New("api request failed")
	// ErrTaskFailed matches every TaskError.
	ErrTaskFailed = errors.New("task failed")
	// ErrInvalidImageSource is returned when an image source cannot be read.
	ErrInvalidImageSource = errors.New("invalid image source")
)

// APIError is a network failure or a non-2xx response.
type APIError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", ErrTransport, e.Message)
	}
	return fmt.Sprintf("%s (status %d): %s", ErrTransport, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func (e *APIError) Is(target error) bool {
	return target == ErrTransport
}

// TaskError reports a task that reached a terminal status other than Ready.
type TaskError struct {
	ID      string
	Status  Status
	Message string
}

func (e *TaskError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s: %s", ErrTaskFailed, e.ID, e.Status)
	}
	return fmt.Sprintf("%s: %s: %s: %s", ErrTaskFailed, e.ID, e.Status, e.Message)
}

func (e *TaskError) Is(target error) bool {
	return target == ErrTaskFailed
}
