package audiodedupe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Provider computes the acoustic fingerprint of an audio file. The scan
// coordinator treats it as a black box: one invocation per file per pass,
// and any error makes the file a failed candidate for that pass.
type Provider interface {
	Fingerprint(ctx context.Context, path string) (string, error)
}

// ProviderFunc adapts a plain function to the Provider interface
type ProviderFunc func(ctx context.Context, path string) (string, error)

// Fingerprint calls f
func (f ProviderFunc) Fingerprint(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// CommandProvider obtains fingerprints by running an external command as
// "<command> <args...> <path>" and decoding a JSON object with a
// "fingerprint" field from its standard output. fpcalc from the chromaprint
// tools is the default.
type CommandProvider struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// NewCommandProvider builds a provider with defaults filled in for zero values
func NewCommandProvider(command string, args []string, timeout time.Duration) *CommandProvider {
	if command == "" {
		command = DefaultFingerprintCmd
	}
	if args == nil {
		args = DefaultFingerprintCmdArgs()
	}
	if timeout <= 0 {
		timeout = DefaultFingerprintTimeout
	}
	return &CommandProvider{Command: command, Args: args, Timeout: timeout}
}

// Check verifies that the fingerprint command can be found on PATH
func (p *CommandProvider) Check() error {
	if _, err := exec.LookPath(p.Command); err != nil {
		return fmt.Errorf("fingerprint command %q not found: %w", p.Command, err)
	}
	return nil
}

// Fingerprint runs the command against path under the configured timeout.
// The invocation is attempted exactly once; a failed file is simply retried
// on a later pass because it never enters the index.
func (p *CommandProvider) Fingerprint(ctx context.Context, path string) (string, error) {
	defer VerboseEnter()()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	args := make([]string, 0, len(p.Args)+1)
	args = append(args, p.Args...)
	args = append(args, path)

	if IsDebugEnabled("provider") {
		logger.Debug().Str("cmd", p.Command).Strs("args", args).Msg("invoking fingerprint command")
	}

	cmd := exec.CommandContext(ctx, p.Command, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %s on %s", p.Command, p.Timeout, path)
		}
		return "", fmt.Errorf("%s failed on %s: %w", p.Command, path, err)
	}

	var decoded struct {
		Fingerprint string `json:"fingerprint"`
	}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		return "", fmt.Errorf("undecodable %s output for %s: %w", p.Command, path, err)
	}
	if decoded.Fingerprint == "" {
		return "", fmt.Errorf("no fingerprint in %s output for %s", p.Command, path)
	}

	return decoded.Fingerprint, nil
}
