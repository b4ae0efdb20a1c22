package agentreport

import (
	"encoding/json"
	"fmt"
	"io"
)

// maxTaskResultSize caps task payloads to prevent memory exhaustion.
const maxTaskResultSize = 8 << 20 // 8MB; screenshots arrive base64-inlined

// TaskResult is the payload produced by the task-execution collaborator.
// On Success the TaskSummary carries the raw report markdown; otherwise
// Error holds a message to display verbatim.
type TaskResult struct {
	Success     bool       `json:"success"`
	TaskSummary string     `json:"task_summary"`
	Error       string     `json:"error"`
	Files       []TaskFile `json:"files"`
}

// TaskFile is an auxiliary artifact attached to a task result.
type TaskFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// DecodeTaskResult reads a JSON task result from r.
func DecodeTaskResult(r io.Reader) (TaskResult, error) {
	var res TaskResult
	dec := json.NewDecoder(io.LimitReader(r, maxTaskResultSize))
	if err := dec.Decode(&res); err != nil {
		return TaskResult{}, fmt.Errorf("%w: %v", ErrTaskDecode, err)
	}
	return res, nil
}
