package nmcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/newtron-network/nmconn/pkg/util"
)

// SSHConfig describes how to reach a remote host running NetworkManager.
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	KeyFile    string
	KnownHosts string // empty disables host key verification
	Binary     string // nmcli path on the remote host
}

// SSHRunner runs nmcli on a remote host. Each command gets its own SSH
// session on a shared connection.
type SSHRunner struct {
	client *ssh.Client
	host   string
	binary string
}

// NewSSHRunner dials the host described by cfg.
func NewSSHRunner(cfg SSHConfig) (*SSHRunner, error) {
	if cfg.Host == "" {
		return nil, errors.New("ssh host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}

	auth, err := sshAuthMethods(cfg)
	if err != nil {
		return nil, err
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHosts != "" {
		hostKeyCallback, err = knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("loading known hosts %s: %w", cfg.KnownHosts, err)
		}
	} else {
		util.WithHost(cfg.Host).Warn("Host key verification disabled (no known_hosts file configured)")
	}

	config := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", addr, err)
	}

	binary := cfg.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	return &SSHRunner{client: client, host: cfg.Host, binary: binary}, nil
}

func sshAuthMethods(cfg SSHConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if cfg.KeyFile != "" {
		pem, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading SSH key %s: %w", cfg.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("parsing SSH key %s: %w", cfg.KeyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if len(methods) == 0 {
		return nil, errors.New("no SSH credentials: set a password or key file")
	}
	return methods, nil
}

// Run implements Runner.
func (r *SSHRunner) Run(ctx context.Context, args []string, stdin string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, err := r.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	if stdin != "" {
		session.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	argv := append([]string{r.binary}, args...)
	cmdline := strings.Join(localeEnv, " ") + " " + shellCommand(argv)

	res := &Result{Args: args}
	err = session.Run(cmdline)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			res.RC = exitErr.ExitStatus()
			return res, nil
		}
		return nil, fmt.Errorf("SSH exec on %s: %w", r.host, err)
	}
	return res, nil
}

// Target implements Runner.
func (r *SSHRunner) Target() string {
	return r.host
}

// Close closes the SSH connection.
func (r *SSHRunner) Close() error {
	return r.client.Close()
}
