package datarecording

import (
	"os"
	"strings"
	"time"
)

const execInfoTable = "exec_info"

// ExecInfo is a property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// Records program execution
type execRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	recorder.CreateTable(execInfoTable, ExecInfo{})

	return &execRecorder{recorder: recorder}
}

// Start logs the current execution.
func (e *execRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", timestamp()},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.entries = append(e.entries, ExecInfo{"Working Directory", cwd})
}

// End writes the execution information along with the exit time.
func (e *execRecorder) End() {
	if e.entries == nil {
		return
	}

	e.entries = append(e.entries, ExecInfo{"End Time", timestamp()})

	for _, entry := range e.entries {
		e.recorder.InsertData(execInfoTable, entry)
	}

	e.entries = nil
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
