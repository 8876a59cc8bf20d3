package vpn

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yllada/wg-manager/common"
)

func TestExecRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		cmd        common.Command
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "success",
			cmd:        common.Command{Name: "sh", Args: []string{"-c", "echo hello"}},
			wantCode:   0,
			wantStdout: "hello\n",
		},
		{
			name:       "non-zero exit with output",
			cmd:        common.Command{Name: "sh", Args: []string{"-c", "echo out; echo err >&2; exit 3"}},
			wantCode:   3,
			wantStdout: "out\n",
			wantStderr: "err\n",
		},
		{
			name:       "stdin",
			cmd:        common.Command{Name: "cat", Stdin: "private-key"},
			wantCode:   0,
			wantStdout: "private-key",
		},
	}

	runner := NewExecRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := runner.Run(context.Background(), tt.cmd, 5*time.Second)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", res.Code, tt.wantCode)
			}
			if res.Stdout != tt.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tt.wantStdout)
			}
			if res.Stderr != tt.wantStderr {
				t.Errorf("Stderr = %q, want %q", res.Stderr, tt.wantStderr)
			}
			if res.TimedOut {
				t.Error("TimedOut = true, want false")
			}
			if res.Success() != (tt.wantCode == 0) {
				t.Errorf("Success() = %v", res.Success())
			}
		})
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	runner := &ExecRunner{WaitDelay: 500 * time.Millisecond}

	start := time.Now()
	res, err := runner.Run(context.Background(), common.Command{Name: "sleep", Args: []string{"30"}}, 200*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() error = %v, a timeout is not a start failure", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if res.Success() {
		t.Error("a killed process must not count as success")
	}
	if res.Code != -1 {
		t.Errorf("Code = %d, want -1", res.Code)
	}
	if elapsed > 3*time.Second {
		t.Errorf("Run() took %v, should return shortly after the timeout", elapsed)
	}
}

func TestExecRunner_TimeoutKeepsOutput(t *testing.T) {
	runner := NewExecRunner()

	res, err := runner.Run(context.Background(),
		common.Command{Name: "sh", Args: []string{"-c", "echo partial; exec sleep 30"}},
		300*time.Millisecond)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.TimedOut || res.Success() {
		t.Errorf("Result = %+v, want timed out failure", res)
	}
	if !strings.Contains(res.Stdout, "partial") {
		t.Errorf("Stdout = %q, output written before the kill should be kept", res.Stdout)
	}
}

func TestExecRunner_StartFailure(t *testing.T) {
	runner := NewExecRunner()

	res, err := runner.Run(context.Background(), common.Command{Name: "wg-manager-no-such-binary"}, time.Second)
	if err == nil {
		t.Fatal("Run() error = nil, want start failure")
	}
	if res.Success() {
		t.Error("a command that never started must not count as success")
	}
}

func TestExecRunner_InvalidTimeout(t *testing.T) {
	if _, err := NewExecRunner().Run(context.Background(), common.Command{Name: "true"}, 0); err == nil {
		t.Error("Run() with zero timeout should fail")
	}
}
