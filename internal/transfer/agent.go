// Package transfer delivers already-written export files to a remote FTP or
// FTPS endpoint by driving an external curl binary. One attempt per file, no
// rollback: the caller receives the names that made it and reconciles.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrToolNotFound marks a missing transfer tool binary, distinct from
// credential or connection failures.
var ErrToolNotFound = errors.New("transfer tool not found")

// Protocol is the file-transfer variant.
type Protocol string

const (
	ProtocolFTP  Protocol = "ftp"
	ProtocolFTPS Protocol = "ftps"
)

const (
	minTimeoutMS     = 1000
	maxTimeoutMS     = 600000
	defaultTimeoutMS = 30000

	implicitTLSPort = "990"
)

// Config carries the per-app transfer settings.
type Config struct {
	Address   string
	Username  string
	Password  string
	Protocol  string // optional explicit protocol, overrides the address scheme
	TimeoutMS int
	RemoteDir string // optional subdirectory under the address path
}

// Endpoint is a parsed transfer address.
type Endpoint struct {
	Protocol    Protocol
	Host        string
	Port        string
	BasePath    string
	ImplicitTLS bool
}

// ParseAddress accepts a bare host, a host with path, or a full URL.
// Embedded credentials are rejected. Protocol precedence: the explicit
// field, then a recognized scheme, then plain FTP. Port 990 with FTPS is
// treated as implicit TLS, suppressing the explicit upgrade flag.
func ParseAddress(address, explicitProtocol string) (Endpoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Endpoint{}, fmt.Errorf("transfer address required")
	}

	schemeProtocol := ""
	if idx := strings.Index(address, "://"); idx >= 0 {
		scheme := strings.ToLower(address[:idx])
		switch scheme {
		case "ftp", "ftps":
			schemeProtocol = scheme
		default:
			return Endpoint{}, fmt.Errorf("unsupported transfer scheme %q", scheme)
		}
	} else {
		address = "ftp://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return Endpoint{}, fmt.Errorf("malformed transfer address: %w", err)
	}
	if u.User != nil {
		return Endpoint{}, fmt.Errorf("transfer address must not embed credentials")
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("transfer address has no host")
	}

	protocol := ProtocolFTP
	switch {
	case explicitProtocol != "":
		switch strings.ToLower(explicitProtocol) {
		case "ftp":
			protocol = ProtocolFTP
		case "ftps":
			protocol = ProtocolFTPS
		default:
			return Endpoint{}, fmt.Errorf("unsupported transfer protocol %q", explicitProtocol)
		}
	case schemeProtocol != "":
		protocol = Protocol(schemeProtocol)
	}

	ep := Endpoint{
		Protocol: protocol,
		Host:     u.Hostname(),
		Port:     u.Port(),
		BasePath: strings.Trim(u.Path, "/"),
	}
	ep.ImplicitTLS = ep.Port == implicitTLSPort && protocol == ProtocolFTPS
	return ep, nil
}

// URL joins the base path, the optional remote directory and a file name
// into a fully qualified remote URL, percent-encoding each path segment
// independently. An empty name yields the base listing URL.
func (ep Endpoint) URL(remoteDir, name string) string {
	scheme := "ftp"
	if ep.Protocol == ProtocolFTPS && ep.ImplicitTLS {
		// curl speaks implicit TLS only through the ftps scheme
		scheme = "ftps"
	}
	host := ep.Host
	if ep.Port != "" {
		host += ":" + ep.Port
	}

	var segments []string
	for _, part := range []string{ep.BasePath, remoteDir, name} {
		for _, seg := range strings.Split(part, "/") {
			if seg == "" {
				continue
			}
			segments = append(segments, url.PathEscape(seg))
		}
	}

	joined := strings.Join(segments, "/")
	if name == "" {
		// trailing slash requests a directory listing
		if joined != "" {
			joined += "/"
		}
		return fmt.Sprintf("%s://%s/%s", scheme, host, joined)
	}
	return fmt.Sprintf("%s://%s/%s", scheme, host, joined)
}

// timeoutSeconds clamps the configured millisecond timeout to
// [1000, 600000] (default 30000) and converts to whole seconds, rounding up.
func timeoutSeconds(ms int) int {
	if ms <= 0 {
		ms = defaultTimeoutMS
	}
	if ms < minTimeoutMS {
		ms = minTimeoutMS
	}
	if ms > maxTimeoutMS {
		ms = maxTimeoutMS
	}
	return (ms + 999) / 1000
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (output string, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, args...).CombinedOutput()
	return string(out), err
}

// Option configures the agent.
type Option func(*Agent)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(e Executor) Option {
	return func(a *Agent) {
		if e != nil {
			a.exec = e
		}
	}
}

// Agent invokes the transfer tool once per file.
type Agent struct {
	binary string
	exec   Executor
}

// New constructs a transfer agent around the given curl binary.
func New(binary string, opts ...Option) *Agent {
	if binary == "" {
		binary = "curl"
	}
	a := &Agent{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func validateCredentials(cfg Config) error {
	if cfg.Username == "" {
		return fmt.Errorf("transfer username required")
	}
	if cfg.Password == "" {
		return fmt.Errorf("transfer password required")
	}
	return nil
}

func (a *Agent) baseArgs(cfg Config, ep Endpoint) []string {
	args := []string{
		"--silent",
		"--show-error",
		"--fail",
		"--connect-timeout", strconv.Itoa(timeoutSeconds(cfg.TimeoutMS)),
		"--user", cfg.Username + ":" + cfg.Password,
	}
	if ep.Protocol == ProtocolFTPS && !ep.ImplicitTLS {
		args = append(args, "--ssl-reqd")
	}
	return args
}

// TestConnection requests a listing of the base remote path and fails
// immediately on any error.
func (a *Agent) TestConnection(ctx context.Context, cfg Config) error {
	ep, err := ParseAddress(cfg.Address, cfg.Protocol)
	if err != nil {
		return err
	}
	if err := validateCredentials(cfg); err != nil {
		return err
	}
	args := append(a.baseArgs(cfg, ep), ep.URL(cfg.RemoteDir, ""))
	return a.run(ctx, args)
}

// Upload transfers files one at a time, in order. The first failure aborts
// the remainder of the batch; files already sent are not rolled back, and
// their names are returned so the caller can reconcile partial delivery.
func (a *Agent) Upload(ctx context.Context, cfg Config, files []string) ([]string, error) {
	ep, err := ParseAddress(cfg.Address, cfg.Protocol)
	if err != nil {
		return nil, err
	}
	if err := validateCredentials(cfg); err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, len(files))
	for _, file := range files {
		name := filepath.Base(file)
		args := append(a.baseArgs(cfg, ep),
			"--upload-file", file,
			"--ftp-create-dirs",
			ep.URL(cfg.RemoteDir, name),
		)
		if err := a.run(ctx, args); err != nil {
			return uploaded, fmt.Errorf("upload %s: %w", name, err)
		}
		uploaded = append(uploaded, name)
	}
	return uploaded, nil
}

// run executes one tool invocation and classifies its failure.
func (a *Agent) run(ctx context.Context, args []string) error {
	output, err := a.exec.Run(ctx, a.binary, args)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrToolNotFound, a.binary)
	}
	if msg := strings.TrimSpace(output); msg != "" {
		return fmt.Errorf("%s: %s", a.binary, msg)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s: exit code %d", a.binary, exitErr.ExitCode())
	}
	return fmt.Errorf("%s: %w", a.binary, err)
}

// Timeout returns the effective per-call timeout for callers that bound the
// surrounding context.
func Timeout(cfg Config) time.Duration {
	return time.Duration(timeoutSeconds(cfg.TimeoutMS)) * time.Second
}
